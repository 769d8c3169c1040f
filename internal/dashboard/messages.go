package dashboard

import (
	"errors"
	"fmt"

	"github.com/kombefarm/flockdash/internal/poultry"
)

// Confirmation prompts shown before destructive calls.
const (
	UpdatePrompt = "Are you sure, you want to update this row ?"
	DeletePrompt = "Are you sure, you want to delete this stock ?"
)

const (
	loadSuffix     = " : Contact Support or Try again later ! "
	mutationSuffix = " : Refresh to try again or contact support if you believe this is an error that cannot be solved!  "
)

var (
	// ErrInFlight is returned when the same action is already awaiting a
	// response.
	ErrInFlight = errors.New("operation already in progress")
	// ErrHalted is returned once an error has replaced the view. Only a
	// full reload recovers.
	ErrHalted = errors.New("dashboard halted by a previous error")
	// ErrNoRouter is returned by Navigate when no router is attached.
	ErrNoRouter = errors.New("no router attached")
	// ErrNoExporter is returned by Export when no grid is attached.
	ErrNoExporter = errors.New("no exporter attached")
)

// LoadErrorMessage formats a failed fetch for the error panel.
func LoadErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return poultry.AsAPIError(err).Error() + loadSuffix
}

// MutationErrorMessage formats a failed create, update or delete for the
// error panel. Server errors lead with their status; transport errors carry
// only their message.
func MutationErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	apiErr := poultry.AsAPIError(err)
	if apiErr.Kind == poultry.KindServer {
		return fmt.Sprintf("%d : %s%s", apiErr.Status, apiErr.Message, mutationSuffix)
	}
	return apiErr.Message + mutationSuffix
}
