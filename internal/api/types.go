package api

// Chapter identifies a production unit within a series.
type Chapter struct {
	ID       int64   `json:"id"`
	Number   int     `json:"number"`
	Title    *string `json:"title"`
	SeriesID int64   `json:"seriesId"`
}

// Take is an ordered unit of a chapter.
type Take struct {
	ID            int64          `json:"id"`
	Number        int            `json:"number"`
	TCIn          *string        `json:"tcIn"`
	TCOut         *string        `json:"tcOut"`
	Interventions []Intervention `json:"interventions"`
}

// Intervention is one spoken line attributed to a character.
type Intervention struct {
	ID          int64   `json:"id"`
	TakeID      int64   `json:"takeId"`
	Character   string  `json:"character"`
	Dialogue    string  `json:"dialogue"`
	Completed   bool    `json:"completed"`
	TCIn        *string `json:"tcIn"`
	TCOut       *string `json:"tcOut"`
	OrderInTake *int    `json:"orderInTake"`
}

// ChapterDetails is the payload of GET /chapters/{id}/details.
type ChapterDetails struct {
	Chapter Chapter `json:"chapter"`
	Takes   []Take  `json:"takes"`
}

type Series struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ChapterCount int    `json:"chapterCount"`
}

type ChapterSummary struct {
	ID     int64   `json:"id"`
	Number int     `json:"number"`
	Title  *string `json:"title"`
}

// User mirrors the backend's account record, which names its fields in
// Spanish.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"nombre"`
	Role     string `json:"rol,omitempty"`
}

// StatusUpdate, DialogueUpdate and TimecodeUpdate are the PATCH bodies.
// Servers may echo them back with normalised values.
type StatusUpdate struct {
	Completed bool `json:"completed"`
}

type DialogueUpdate struct {
	Dialogue string `json:"dialogue"`
}

type TimecodeUpdate struct {
	TCIn *string `json:"tcIn"`
}

type Credentials struct {
	Username string `json:"nombre"`
	Password string `json:"password"`
}

// Registration is the body of POST /register. Role is "tecnico" or
// "director"; the server falls back to "tecnico".
type Registration struct {
	Username string `json:"nombre"`
	Password string `json:"password"`
	Role     string `json:"rol,omitempty"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
