package apps

import (
	"formulastats/pkg/dashboard"
)

// Explain turns err into a message for the chat. internal is true when the
// user can do nothing about it.
func Explain(err error) (msg string, internal bool) {
	switch dashboard.Classify(err) {
	case dashboard.ErrorNotFound:
		return "Nothing found: " + err.Error(), false
	case dashboard.ErrorNoData:
		return "No data to show: " + err.Error(), false
	case dashboard.ErrorInvalid:
		return "Invalid request: " + err.Error(), false
	}
	return "Something went wrong, please try again later.", true
}

// ReplyError tells the chat what went wrong. Only internal errors are
// returned to the caller.
func ReplyError(bot Sender, chatId int64, err error) error {
	msg, internal := Explain(err)
	if sendErr := SendText(bot, chatId, msg, nil); sendErr != nil {
		return sendErr
	}
	if internal {
		return err
	}
	return nil
}
