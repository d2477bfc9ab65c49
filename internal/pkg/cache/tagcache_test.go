package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTagCache_SetGet(t *testing.T) {
	c := NewTagCache(0)

	c.Set("student:42", ItemPath(TagStudents, "42"), []string{TagStudents, ItemTag(TagStudents, "42")}, "amelia")

	got, ok := c.Get("student:42")
	assert.True(t, ok)
	assert.Equal(t, "amelia", got)
}

func TestTagCache_MissingKey(t *testing.T) {
	c := NewTagCache(0)

	_, ok := c.Get("student:42")
	assert.False(t, ok)
}

func TestTagCache_TagInvalidationExpiresEntry(t *testing.T) {
	c := NewTagCache(0)

	c.Set("students:list", PathStudents, []string{TagStudents, TagList}, []string{"a", "b"})
	c.InvalidateTag(TagStudents)

	_, ok := c.Get("students:list")
	assert.False(t, ok)
	// The stale entry is dropped on read
	assert.Equal(t, 0, c.Len())
}

func TestTagCache_UnrelatedTagLeavesEntryFresh(t *testing.T) {
	c := NewTagCache(0)

	c.Set("students:list", PathStudents, []string{TagStudents, TagList}, "students")
	c.Set("medication:7", ItemPath(TagMedications, "7"), []string{TagMedications}, "ritalin")

	c.InvalidateTag(TagStudents)

	_, ok := c.Get("students:list")
	assert.False(t, ok)

	got, ok := c.Get("medication:7")
	assert.True(t, ok)
	assert.Equal(t, "ritalin", got)
}

func TestTagCache_ItemTagOnlyHitsThatItem(t *testing.T) {
	c := NewTagCache(0)

	c.Set("student:1", ItemPath(TagStudents, "1"), []string{ItemTag(TagStudents, "1")}, "one")
	c.Set("student:2", ItemPath(TagStudents, "2"), []string{ItemTag(TagStudents, "2")}, "two")

	c.InvalidateTag(ItemTag(TagStudents, "1"))

	_, ok := c.Get("student:1")
	assert.False(t, ok)

	_, ok = c.Get("student:2")
	assert.True(t, ok)
}

func TestTagCache_PathInvalidation(t *testing.T) {
	c := NewTagCache(0)

	c.Set("students:list", PathStudents, nil, "list")
	c.InvalidatePath(PathStudents)

	_, ok := c.Get("students:list")
	assert.False(t, ok)
}

func TestTagCache_SetAfterInvalidationIsFresh(t *testing.T) {
	c := NewTagCache(0)

	c.Set("students:list", PathStudents, []string{TagStudents}, "old")
	c.InvalidateTag(TagStudents)
	c.Set("students:list", PathStudents, []string{TagStudents}, "new")

	got, ok := c.Get("students:list")
	assert.True(t, ok)
	assert.Equal(t, "new", got)
}

func TestTagCache_TTLExpiry(t *testing.T) {
	c := NewTagCache(10 * time.Millisecond)

	c.Set("students:list", PathStudents, nil, "list")
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("students:list")
	assert.False(t, ok)
}
