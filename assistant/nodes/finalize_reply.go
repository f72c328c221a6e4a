package dispatchnode

import (
	"fmt"
	"strings"

	contractx "github.com/touchbase-labs/touchbase/assistant/contract"
)

func FinalizeReply(in *ReplyState) (ReplyOutput, error) {
	if in == nil {
		return ReplyOutput{}, fmt.Errorf("%w: reply state is nil", contractx.ErrValidation)
	}

	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return ReplyOutput{}, fmt.Errorf("%w: dispatch produced no message", contractx.ErrValidation)
	}

	return ReplyOutput{Reply: msg}, nil
}
