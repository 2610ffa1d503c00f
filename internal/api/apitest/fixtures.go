package apitest

import "github.com/asrecorded/asrec/internal/api"

func str(s string) *string { return &s }

// SampleChapter is chapter 7 of series 3: two takes, the first with
// Luis (complete) and Marta (pending), the second with Ana (pending).
func SampleChapter() api.ChapterDetails {
	return api.ChapterDetails{
		Chapter: api.Chapter{ID: 7, Number: 12, Title: str("El regreso"), SeriesID: 3},
		Takes: []api.Take{
			{
				ID: 70, Number: 1, TCIn: str("00:00:01:00"), TCOut: str("00:00:09:12"),
				Interventions: []api.Intervention{
					{ID: 701, TakeID: 70, Character: "Luis", Dialogue: "Hola.", Completed: true, TCIn: str("00:00:01:00")},
					{ID: 702, TakeID: 70, Character: "Marta", Dialogue: "¿Dónde estabas?", Completed: false, TCIn: str("00:00:03:10")},
				},
			},
			{
				ID: 71, Number: 2, TCIn: str("00:00:10:00"), TCOut: nil,
				Interventions: []api.Intervention{
					{ID: 711, TakeID: 71, Character: "Ana", Dialogue: "Nadie me avisó.", Completed: false},
				},
			},
		},
	}
}
