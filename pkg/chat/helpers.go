package chat

import (
	"github.com/go-go-golems/fitcoach/pkg/conversation"
	"github.com/go-go-golems/fitcoach/pkg/session"
)

func lastTurn(s *session.Session) conversation.Turn {
	var ret conversation.Turn
	for turn := range s.All() {
		ret = turn
	}
	return ret
}
