package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationRow(t *testing.T) {
	row := PaginationRow(0, 3, "history_page_")
	require.Len(t, row, 2)
	assert.Equal(t, "1/3", row[0].Text)
	assert.Equal(t, NoopCallback, row[0].CallbackData)
	assert.Equal(t, "history_page_1", row[1].CallbackData)

	row = PaginationRow(1, 3, "history_page_")
	require.Len(t, row, 3)
	assert.Equal(t, "history_page_0", row[0].CallbackData)
	assert.Equal(t, "history_page_2", row[2].CallbackData)

	row = PaginationRow(2, 3, "history_page_")
	require.Len(t, row, 2)
	assert.Equal(t, "3/3", row[1].Text)
}

func TestInlineKeyboard(t *testing.T) {
	kb := InlineKeyboard(ButtonRow(InlineButton("A", "a"), InlineButton("B", "b")))

	require.Len(t, kb.InlineKeyboard, 1)
	assert.Equal(t, "b", kb.InlineKeyboard[0][1].CallbackData)
}
