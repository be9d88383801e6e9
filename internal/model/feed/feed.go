package feed

// HealthAlert is one card on the health updates page.
type HealthAlert struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Source      string `json:"source,omitempty"`
	URL         string `json:"url,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
	Category    string `json:"category,omitempty"`
}

// WeatherReport is the current-conditions summary shown on the updates page.
type WeatherReport struct {
	Location   string  `json:"location"`
	TempC      float64 `json:"tempC"`
	Condition  string  `json:"condition"`
	IconURL    string  `json:"iconUrl,omitempty"`
	WindKPH    float64 `json:"windKph"`
	Humidity   int     `json:"humidity"`
	CloudCover int     `json:"cloudCover"`
	Advisory   string  `json:"advisory"`
	Fallback   bool    `json:"fallback,omitempty"`
}

// Translation is the result of one machine-translation call.
type Translation struct {
	TranslatedText string `json:"translatedText"`
	SourceLanguage string `json:"sourceLanguage"`
	TargetLanguage string `json:"targetLanguage"`
}
