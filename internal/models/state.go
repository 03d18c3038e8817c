package models

// State is the durable record of what has already been delivered.
// MessageIDs holds processed source-message identifiers, APIOfferIDs
// holds normalized offer ids already announced from the API source.
// Both sets only ever grow. LastFetch is an informational timestamp
// string; historical documents carry timezone-less values, so it is
// never parsed, only carried.
type State struct {
	MessageIDs  []string `json:"message_ids"`
	APIOfferIDs []string `json:"api_offer_ids"`
	LastFetch   *string  `json:"last_fetch"`
}

// MessageIDSet returns the processed message ids as a lookup set.
func (s *State) MessageIDSet() map[string]struct{} {
	return toSet(s.MessageIDs)
}

// APIOfferIDSet returns the delivered API offer ids as a lookup set.
func (s *State) APIOfferIDSet() map[string]struct{} {
	return toSet(s.APIOfferIDs)
}

// AddMessageIDs unions ids into MessageIDs, keeping existing entries first.
func (s *State) AddMessageIDs(ids []string) {
	s.MessageIDs = union(s.MessageIDs, ids)
}

// AddAPIOfferIDs unions normalized ids into APIOfferIDs.
func (s *State) AddAPIOfferIDs(ids []string) {
	s.APIOfferIDs = union(s.APIOfferIDs, ids)
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func union(existing, added []string) []string {
	seen := toSet(existing)
	for _, id := range added {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		existing = append(existing, id)
	}
	return existing
}
