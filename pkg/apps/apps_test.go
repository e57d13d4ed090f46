package apps

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandArgs(t *testing.T) {
	cmd, args := CommandArgs("/Chart@formulastatsbot team_pace_comparison 2024  1 race")
	assert.Equal(t, "/chart", cmd)
	assert.Equal(t, []string{"team_pace_comparison", "2024", "1", "race"}, args)

	cmd, args = CommandArgs("   ")
	assert.Empty(t, cmd)
	assert.Empty(t, args)
}

func TestPager(t *testing.T) {
	assert.Equal(t, 3, Pages(5, 2))
	assert.Equal(t, 1, Pages(0, 2))
	lo, hi := PageRange(5, 2, 2)
	assert.Equal(t, []int{4, 5}, []int{lo, hi})

	kb, ok := PagerKeyboard("schedule.2024", 1, 2, 3)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard[0], 2)
	next := *kb.InlineKeyboard[0][1].CallbackData
	assert.Equal(t, "pager:next:1:2:schedule.2024", next)

	key, page, count, ok := ParsePager(next)
	require.True(t, ok)
	assert.Equal(t, "schedule.2024", key)
	assert.Equal(t, 2, page)
	assert.Equal(t, 2, count)

	_, ok = PagerKeyboard("x", 0, 2, 1)
	assert.False(t, ok)
	_, _, _, ok = ParsePager("pager:prev:0:2:x")
	assert.False(t, ok)
	_, _, _, ok = ParsePager("prefs:1:Outliers")
	assert.False(t, ok)
}

func TestCode(t *testing.T) {
	assert.Equal(t, "```\na\\`b\\\\c```", Code("a`b\\c"))
}

func TestUserFromContext(t *testing.T) {
	_, ok := UserID(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), &tgbotapi.User{ID: 42, UserName: "ana"}, &tgbotapi.Chat{ID: 1})
	id, ok := UserID(ctx)
	require.True(t, ok)
	assert.Equal(t, "42", id)
	assert.Equal(t, "ana", UserName(ctx))
}
