package handlers

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateLabelShortUnchanged(t *testing.T) {
	assert.Equal(t, "Созвон", truncateLabel("Созвон", 24))
	assert.Equal(t, "standup", truncateLabel("standup", 24))
}

func TestTruncateLabelCyrillicStaysValidUTF8(t *testing.T) {
	name := "Еженедельная встреча с командой разработки"

	got := truncateLabel(name, 24)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "Еженедельная встреча с к…", got)
	assert.Equal(t, 25, utf8.RuneCountInString(got)) // 24 руны + многоточие
}

func TestTruncateLabelExactBoundary(t *testing.T) {
	name := "ровно двадцать четыре ру"
	assert.Equal(t, 24, utf8.RuneCountInString(name))
	assert.Equal(t, name, truncateLabel(name, 24))
}
