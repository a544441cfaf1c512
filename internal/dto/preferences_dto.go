package dto

type PreferencesResponse struct {
	RequireSubtitles        bool   `json:"require_subtitles"`
	RequireAudioDescription bool   `json:"require_audio_description"`
	ExcludeViolentContent   bool   `json:"exclude_violent_content"`
	ExcludeSexualContent    bool   `json:"exclude_sexual_content"`
	PreferredLanguage       string `json:"preferred_language"`
}

type UpdatePreferencesRequest struct {
	RequireSubtitles        bool   `json:"require_subtitles"`
	RequireAudioDescription bool   `json:"require_audio_description"`
	ExcludeViolentContent   bool   `json:"exclude_violent_content"`
	ExcludeSexualContent    bool   `json:"exclude_sexual_content"`
	PreferredLanguage       string `json:"preferred_language" validate:"omitempty,len=2"`
}
