package assets

import (
	"encoding/json"
	"fmt"
)

// ModCategory classifies where the content of a mod folder comes from
type ModCategory int

const (
	Idle ModCategory = iota
	Cutscene
	IllustDating
	IllustSpecial
	SpecialIllust
	IllustTalk
	Npc
	Unknown
)

// categoryPrefixes lists the marker prefixes in classification priority order.
// The same prefix names the remote folder and the skeleton file of the category.
var categoryPrefixes = []struct {
	category ModCategory
	prefix   string
}{
	{Idle, "char"},
	{Cutscene, "cutscene_char"},
	{IllustDating, "illust_dating"},
	{IllustSpecial, "illust_special"},
	{SpecialIllust, "specialillust"},
	{IllustTalk, "illust_talk"},
	{Npc, "npc"},
}

// String returns the string representation of the category
func (c ModCategory) String() string {
	switch c {
	case Idle:
		return "idle"
	case Cutscene:
		return "cutscene"
	case IllustDating:
		return "illustdating"
	case IllustSpecial:
		return "illustspecial"
	case SpecialIllust:
		return "specialillust"
	case IllustTalk:
		return "illusttalk"
	case Npc:
		return "npc"
	default:
		return "unknown"
	}
}

// Prefix returns the file name prefix used by markers and skeleton files of the
// category. Unknown has no prefix.
func (c ModCategory) Prefix() string {
	for _, p := range categoryPrefixes {
		if p.category == c {
			return p.prefix
		}
	}
	return ""
}

// ParseModCategory is the inverse of String. Unrecognized names yield Unknown.
func ParseModCategory(s string) ModCategory {
	for c := Idle; c < Unknown; c++ {
		if c.String() == s {
			return c
		}
	}
	return Unknown
}

// MarshalText implements encoding.TextMarshaler
func (c ModCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *ModCategory) UnmarshalText(text []byte) error {
	*c = ParseModCategory(string(text))
	return nil
}

// AssetBundle is everything the viewer needs to render one mod folder.
// Payloads is keyed by file name.
type AssetBundle struct {
	Category         ModCategory              `json:"modType"`
	Identifier       *string                  `json:"modId"`
	SkeletonFileName string                   `json:"skeletonFilename"`
	AtlasFileName    string                   `json:"atlasFilename"`
	Payloads         map[string]TransportBlob `json:"rawData"`
}

// ID returns the identifier or an empty string when the folder is unclassified
func (b *AssetBundle) ID() string {
	if b == nil || b.Identifier == nil {
		return ""
	}
	return *b.Identifier
}

// TransportBlob is the embeddable form of a single file
type TransportBlob struct {
	MimeType      string
	Base64Payload string
}

// MarshalJSON renders the blob as a data URI string
func (tb TransportBlob) MarshalJSON() ([]byte, error) {
	return json.Marshal(tb.DataURI())
}

// UnmarshalJSON parses a data URI string
func (tb *TransportBlob) UnmarshalJSON(data []byte) error {
	var uri string
	if err := json.Unmarshal(data, &uri); err != nil {
		return err
	}
	parsed, err := ParseDataURI(uri)
	if err != nil {
		return fmt.Errorf("invalid transport blob: %w", err)
	}
	*tb = parsed
	return nil
}
