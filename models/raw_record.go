package models

import "encoding/json"

// RawRecord is a venue or event row exactly as the data store returned it.
// Values stay undecoded so the normalizer can tell strings, arrays, objects
// and JSON-encoded strings apart.
type RawRecord map[string]json.RawMessage
