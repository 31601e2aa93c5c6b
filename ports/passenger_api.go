package ports

import (
	"context"
	"io"

	"github.com/hannaerdza/titanic-visualization/domain/passenger"
)

// PassengerAPI is the data-access boundary to the passenger service.
// Implementations do not retry or cache; failures are returned to the caller.
type PassengerAPI interface {
	// ListPassengers returns every record matching the predicate. An empty predicate sends no parameters.
	ListPassengers(ctx context.Context, predicate passenger.Predicate) ([]passenger.Passenger, error)

	// Statistics returns the aggregate survival counts
	Statistics(ctx context.Context) (*passenger.Statistics, error)

	// ImportCSV uploads a CSV file as multipart field "file"
	ImportCSV(ctx context.Context, filename string, r io.Reader) (*passenger.ImportAck, error)
}
