package types

import "strings"

// OtherTag is the tag reported for categories that have no entry in a rate table.
const OtherTag = "other"

// Category is a product category resolved against a rate table: either a
// known tag with its own rate, or Other, which takes the table default.
// The zero value is Other.
type Category struct {
	tag   string
	known bool
}

// KnownCategory returns a category with an explicit entry in a rate table.
func KnownCategory(tag string) Category {
	return Category{tag: NormalizeTag(tag), known: true}
}

// OtherCategory returns the default-rate category.
func OtherCategory() Category {
	return Category{}
}

// IsKnown reports whether the category matched a table entry.
func (c Category) IsKnown() bool {
	return c.known
}

// Tag returns the matched tag, or OtherTag.
func (c Category) Tag() string {
	if !c.known {
		return OtherTag
	}
	return c.tag
}

// String returns the string representation
func (c Category) String() string {
	return c.Tag()
}

// MarshalText lets categories serialize as their tag.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.Tag()), nil
}

// NormalizeTag lower-cases and trims a free-form category tag.
func NormalizeTag(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
