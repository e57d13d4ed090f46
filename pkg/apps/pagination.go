package apps

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const pagerPrefix = "pager"

// Pages is the number of pages needed for total items.
func Pages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// PageRange is the [lo, hi) item range shown on page.
func PageRange(total, page, perPage int) (int, int) {
	lo := min(page*perPage, total)
	hi := min(lo+perPage, total)
	return lo, hi
}

// PagerKeyboard builds the previous/next buttons for page. The callback
// data reads "pager:<prev|next>:<page>:<count>:<key>", key telling the
// owning app what is paginated. ok is false when there is nowhere to go.
func PagerKeyboard(key string, page, count, pages int) (tgbotapi.InlineKeyboardMarkup, bool) {
	var row []tgbotapi.InlineKeyboardButton
	if page > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Previous", fmt.Sprintf("%s:prev:%d:%d:%s", pagerPrefix, page, count, key)))
	}
	if page < pages-1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Next", fmt.Sprintf("%s:next:%d:%d:%s", pagerPrefix, page, count, key)))
	}
	if len(row) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(row), true
}

// ParsePager reads pager callback data and returns the page to show next.
func ParsePager(data string) (key string, page, count int, ok bool) {
	split := strings.SplitN(data, ":", 5)
	if len(split) != 5 || split[0] != pagerPrefix {
		return "", 0, 0, false
	}
	current, err := strconv.Atoi(split[2])
	if err != nil {
		return "", 0, 0, false
	}
	count, err = strconv.Atoi(split[3])
	if err != nil {
		return "", 0, 0, false
	}
	switch split[1] {
	case "next":
		page = current + 1
	case "prev":
		page = current - 1
	default:
		return "", 0, 0, false
	}
	if page < 0 {
		return "", 0, 0, false
	}
	return split[4], page, count, true
}
