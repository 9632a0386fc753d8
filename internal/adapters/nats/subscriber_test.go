package natsadapter

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/forestgeo/internal/core/domain"
)

func TestHandleBatchRequest(t *testing.T) {
	valid := []byte(`{"id":"b-1","points":[{"lat":4.5,"lon":-74}],"requested_at":"2026-01-02T03:04:05Z"}`)

	tests := []struct {
		name    string
		data    []byte
		handler BatchHandler
		want    ackAction
	}{
		{
			name:    "started",
			data:    valid,
			handler: func(context.Context, *domain.BatchRequest) error { return nil },
			want:    ackDone,
		},
		{
			name:    "handler failure is redelivered",
			data:    valid,
			handler: func(context.Context, *domain.BatchRequest) error { return errors.New("temporal down") },
			want:    ackRetry,
		},
		{
			name:    "malformed json is dropped",
			data:    []byte(`{"id":`),
			handler: func(context.Context, *domain.BatchRequest) error { t.Fatal("handler called"); return nil },
			want:    ackDrop,
		},
		{
			name:    "missing id is dropped",
			data:    []byte(`{"points":[]}`),
			handler: func(context.Context, *domain.BatchRequest) error { t.Fatal("handler called"); return nil },
			want:    ackDrop,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := handleBatchRequest(context.Background(), "geo.batch.requested.b-1", tc.data, tc.handler)
			if got != tc.want {
				t.Errorf("expected action %d, got %d", tc.want, got)
			}
		})
	}
}

func TestHandleBatchRequest_DecodesPoints(t *testing.T) {
	var got *domain.BatchRequest
	data := []byte(`{"id":"b-2","points":[{"lat":4.5,"lon":-74},{"lat":-4.2,"lon":-69.9}]}`)

	handleBatchRequest(context.Background(), "geo.batch.requested.b-2", data, func(_ context.Context, req *domain.BatchRequest) error {
		got = req
		return nil
	})

	if got == nil || got.ID != "b-2" || len(got.Points) != 2 {
		t.Fatalf("unexpected request %+v", got)
	}
	if got.Points[1].Lon != -69.9 {
		t.Errorf("unexpected second point %+v", got.Points[1])
	}
}
