package dto

type OpenInput struct {
	BookID   string
	DeviceID string
}

type BookInfo struct {
	BookID   string
	Title    string
	Kind     string
	FilePath string
	Pages    int
	Engine   string
}

type PageOutput struct {
	Page         int
	MaxPage      int
	ChapterTitle string
	Text         string
	Progress     float64
}

type TOCEntry struct {
	Title string
	Href  string
	Page  int
	Depth int
}

type LocateInput struct {
	BookID           string
	DeviceID         string
	Href             string
	Title            string
	Fragment         string
	Position         int
	Progression      float64
	TotalProgression float64
	HasProgression   bool
	HasTotal         bool
}
