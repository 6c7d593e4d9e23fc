package domain

// Stable result codes surfaced to clients. Precondition codes come from the
// turn state machine, the rest from mechanics and the store boundary.
const (
	CodeGameNotInitialized      = "GAME_NOT_INITIALIZED"
	CodeRoomNotReady            = "ROOM_NOT_READY"
	CodePendingAction           = "PENDING_ACTION"
	CodeNotYourTurn             = "NOT_YOUR_TURN"
	CodePlayerNotFound          = "PLAYER_NOT_FOUND"
	CodeSpaceNotFound           = "SPACE_NOT_FOUND"
	CodeSpaceFull               = "SPACE_FULL"
	CodeNoWorkersLeft           = "NO_WORKERS_LEFT"
	CodeNoWorkers               = "NO_WORKERS"
	CodeNothingToRecall         = "NOTHING_TO_RECALL"
	CodeNoMatchingPendingAction = "NO_MATCHING_PENDING_ACTION"

	CodeInvalidAmount         = "INVALID_AMOUNT"
	CodeInvalidPayload        = "INVALID_PAYLOAD"
	CodeInvalidChoice         = "INVALID_CHOICE"
	CodeInsufficientResources = "INSUFFICIENT_RESOURCES"
	CodeResourceNotFound      = "RESOURCE_NOT_FOUND"
	CodeResourceNotAllowed    = "RESOURCE_NOT_ALLOWED"
	CodeUnknownMechanic       = "UNKNOWN_MECHANIC"

	CodeVersionConflict = "VERSION_CONFLICT"
	CodeDBError         = "DB_ERROR"
)
