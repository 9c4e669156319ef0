package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTags(t *testing.T) {
	assert.Equal(t, []string{"#BUG"}, ExtractTags("please check #BUG now"))
}

func TestExtractTagsCaseInsensitive(t *testing.T) {
	assert.Equal(t, []string{"#BUG"}, ExtractTags("нашёл #bug в профиле"))
	assert.Equal(t, []string{"#UIFIX"}, ExtractTags("#UiFix: кнопка съехала"))
}

func TestExtractTagsVocabularyOrder(t *testing.T) {
	got := ExtractTags("#feature запрос, но сначала #BUG")
	assert.Equal(t, []string{"#BUG", "#FEATURE"}, got)
}

func TestExtractTagsNone(t *testing.T) {
	assert.Nil(t, ExtractTags(""))
	assert.Nil(t, ExtractTags("обычное сообщение без тегов"))
}
