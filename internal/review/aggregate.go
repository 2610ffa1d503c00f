package review

import "github.com/asrecorded/asrec/internal/api"

// Aggregate returns the takes to render: a deep copy of authoritative with
// every tracked optimistic value applied. authoritative is never modified.
func Aggregate(authoritative []api.Take, t *Tracker) []api.Take {
	out := make([]api.Take, len(authoritative))
	for i, take := range authoritative {
		take.Interventions = append([]api.Intervention(nil), take.Interventions...)
		if t != nil && t.Len() > 0 {
			for j := range take.Interventions {
				overlay(&take.Interventions[j], t)
			}
		}
		out[i] = take
	}
	return out
}

func overlay(iv *api.Intervention, t *Tracker) {
	if p, ok := t.Get(Key{iv.ID, FieldStatus}); ok {
		iv.Completed = p.Value.Completed
	}
	if p, ok := t.Get(Key{iv.ID, FieldDialogue}); ok {
		iv.Dialogue = p.Value.Dialogue
	}
	if p, ok := t.Get(Key{iv.ID, FieldTimecode}); ok {
		iv.TCIn = p.Value.TCIn
	}
}

// applyConfirmed writes a server-confirmed value into the authoritative
// takes in place.
func applyConfirmed(takes []api.Take, key Key, v Value) bool {
	for i := range takes {
		for j := range takes[i].Interventions {
			iv := &takes[i].Interventions[j]
			if iv.ID != key.InterventionID {
				continue
			}
			switch key.Field {
			case FieldStatus:
				iv.Completed = v.Completed
			case FieldDialogue:
				iv.Dialogue = v.Dialogue
			case FieldTimecode:
				iv.TCIn = v.TCIn
			}
			return true
		}
	}
	return false
}

func cloneTakes(takes []api.Take) []api.Take {
	return Aggregate(takes, nil)
}
