package constants

import "net/http"

const MessageErrorFormat = "The '%s' field is invalid"

const (
	ErrCodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	ErrCodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	ErrCodeInvalidAmount       = "INVALID_AMOUNT"
	ErrCodeUnknownPackage      = "UNKNOWN_PACKAGE"
	ErrCodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
	ErrCodeOperationFailed     = "OPERATION_FAILED"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeInvalidRequestBody  = "INVALID_REQUEST_BODY"
	ErrCodeRouteNotFound       = "ROUTE_NOT_FOUND"
	ErrCodeInvalidAccountID    = "INVALID_ACCOUNT_ID"
	ErrCodeDraftNotFound       = "DRAFT_NOT_FOUND"
	ErrCodeInvalidDraftID      = "INVALID_DRAFT_ID"
)

const (
	ErrMsgInsufficientCredits = "not enough credits, purchase a credit package to continue"
	ErrMsgAccountNotFound     = "account not found"
	ErrMsgInvalidAmount       = "amount must be a positive number of credits"
	ErrMsgUnknownPackage      = "unknown credit package"
	ErrMsgProviderUnavailable = "the text generation service is unavailable, please try again later"
	ErrMsgOperationFailed     = "operation failed"
	ErrMsgValidationFailed    = "request validation failed"
	ErrMsgInvalidRequestBody  = "failed to parse request body"
	ErrMsgRouteNotFound       = "route not found"
	ErrMsgInvalidAccountID    = "the X-Account-ID header must be 1 to 64 characters"
	ErrMsgDraftNotFound       = "draft not found"
	ErrMsgInvalidDraftID      = "draft id must be a positive integer"
)

const (
	MsgCreditsRetrieved  = "credits retrieved successfully"
	MsgHistoryRetrieved  = "credit history retrieved successfully"
	MsgPackagesRetrieved = "credit packages retrieved successfully"
	MsgCreditsPurchased  = "credits purchased successfully"
	MsgSectionGenerated  = "section generated successfully"
	MsgReportGenerated   = "report generated successfully"
	MsgReportReviewed    = "report reviewed successfully"
	MsgReportsRetrieved  = "reports retrieved successfully"
	MsgDraftCreated      = "draft created successfully"
	MsgDraftRetrieved    = "draft retrieved successfully"
	MsgDraftsRetrieved   = "drafts retrieved successfully"
	MsgDraftUpdated      = "draft updated successfully"
	MsgDraftDeleted      = "draft deleted successfully"
)

const CodeSuccess = "success"

var errorMessages = map[string]string{
	ErrCodeInsufficientCredits: ErrMsgInsufficientCredits,
	ErrCodeAccountNotFound:     ErrMsgAccountNotFound,
	ErrCodeInvalidAmount:       ErrMsgInvalidAmount,
	ErrCodeUnknownPackage:      ErrMsgUnknownPackage,
	ErrCodeProviderUnavailable: ErrMsgProviderUnavailable,
	ErrCodeOperationFailed:     ErrMsgOperationFailed,
	ErrCodeValidationFailed:    ErrMsgValidationFailed,
	ErrCodeInvalidRequestBody:  ErrMsgInvalidRequestBody,
	ErrCodeRouteNotFound:       ErrMsgRouteNotFound,
	ErrCodeInvalidAccountID:    ErrMsgInvalidAccountID,
	ErrCodeDraftNotFound:       ErrMsgDraftNotFound,
	ErrCodeInvalidDraftID:      ErrMsgInvalidDraftID,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgOperationFailed
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeInsufficientCredits:
		return http.StatusPaymentRequired
	case ErrCodeUnknownPackage, ErrCodeInvalidAmount, ErrCodeInvalidRequestBody, ErrCodeInvalidAccountID,
		ErrCodeInvalidDraftID:
		return http.StatusBadRequest
	case ErrCodeAccountNotFound, ErrCodeRouteNotFound, ErrCodeDraftNotFound:
		return http.StatusNotFound
	case ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeProviderUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
