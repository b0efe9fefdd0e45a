package medialibrary

// Notifier shows short user-facing messages, one per handled action.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier writes notifications to a Logger
type LogNotifier struct {
	logger Logger
}

func NewLogNotifier(logger Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Success(message string) {
	n.logger.Info("notify: %s", message)
}

func (n *LogNotifier) Error(message string) {
	n.logger.Error("notify: %s", message)
}

// User-facing messages.
const (
	MsgSaved          = "Saved successfully"
	MsgSaveFailed     = "Something went wrong while saving. Please try again."
	MsgOrderUpdated   = "Image order updated"
	MsgOrderFailed    = "Failed to update image order"
	MsgRemoveFailed   = "Failed to remove image"
	MsgUploadFailed   = "Failed to upload file"
	MsgSignInRequired = "Please sign in to continue"
	MsgInvalidForm    = "Please fill in the required fields"
)
