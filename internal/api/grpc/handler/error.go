package handler

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/keepsake-server/internal/api/envelope"
)

// handleError turns an infrastructure fault into a gRPC status. Domain
// outcomes never reach here; they travel in the response envelope.
func handleError(err error) error {
	if err == nil {
		return nil
	}
	return status.Error(codes.Unavailable, envelope.ReasonServiceUnavailable)
}
