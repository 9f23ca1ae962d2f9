package models

// Protection describes the copy-deterrence overlays the gallery applies.
// None of it is enforceable; it only discourages casual copying.
type Protection struct {
	WatermarkText      string `json:"watermark_text"`
	DisableContextMenu bool   `json:"disable_context_menu"`
	DisableDrag        bool   `json:"disable_drag"`
	PrintScreenBlurMs  int    `json:"print_screen_blur_ms"`
}

type SelectionSummary struct {
	PhotoIDs     []string `json:"photo_ids"`
	Count        int      `json:"count"`
	AllSelected  bool     `json:"all_selected"`
	Total        float64  `json:"total"`
	TotalDisplay string   `json:"total_display"`
}

type GalleryView struct {
	Event      Event            `json:"event"`
	Photos     []PhotoProof     `json:"photos"`
	Selection  SelectionSummary `json:"selection"`
	Protection Protection       `json:"protection"`
}

type ToggleSelectionRequest struct {
	PhotoID string `json:"photo_id" validate:"required,uuid"`
}

type SelectAllRequest struct {
	PhotoIDs []string `json:"photo_ids" validate:"dive,uuid"`
}

type SelectionView struct {
	PhotoIDs []string `json:"photo_ids"`
	Count    int      `json:"count"`
}

type SetLanguageRequest struct {
	Language string `json:"language" validate:"required"`
}

type LocaleView struct {
	Language string                       `json:"language"`
	Strings  map[string]map[string]string `json:"strings"`
}
