package passenger

// Statistics is the server-computed survival aggregate
type Statistics struct {
	Total    TotalStats    `json:"total"`
	ByClass  []ClassStats  `json:"by_class"`
	ByGender []GenderStats `json:"by_gender"`
}

type TotalStats struct {
	Passengers int     `json:"passengers"`
	Survivors  int     `json:"survivors"`
	Rate       float64 `json:"rate"`
}

type ClassStats struct {
	Class    int     `json:"class"`
	Total    int     `json:"total"`
	Survived int     `json:"survived"`
	Rate     float64 `json:"rate"`
}

type GenderStats struct {
	Gender   string  `json:"gender"`
	Total    int     `json:"total"`
	Survived int     `json:"survived"`
	Rate     float64 `json:"rate"`
}
