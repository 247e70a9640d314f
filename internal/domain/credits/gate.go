package credits

import (
	"strings"

	"github.com/yanqian/video-summarizer/internal/domain/account"
	apperrors "github.com/yanqian/video-summarizer/pkg/errors"
)

// MinimumBalance is the number of credits a user must hold to start a run.
const MinimumBalance = 1

// Gate authorizes a summarization request. It never debits credits.
type Gate struct{}

// NewGate constructs a Gate.
func NewGate() *Gate {
	return &Gate{}
}

// Check runs the authentication check, then the credit check, stopping at the
// first failure. A nil user means the session could not be resolved.
func (g *Gate) Check(user *account.User, token string) error {
	if user == nil || strings.TrimSpace(token) == "" {
		return apperrors.Wrap(apperrors.CodeUnauthorized, "Not authenticated", nil)
	}
	if user.Credits < MinimumBalance {
		return apperrors.Wrap(apperrors.CodeInsufficientCredits, "Insufficient credits", nil)
	}
	return nil
}
