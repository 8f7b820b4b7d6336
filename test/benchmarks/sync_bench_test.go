package benchmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
	"github.com/mkarlin/stocksync-be/internal/core/ports"
	"github.com/mkarlin/stocksync-be/internal/core/registry"
	"github.com/mkarlin/stocksync-be/internal/core/services"
)

func newBenchPreflight() *services.Preflight {
	reg := registry.New()
	reg.Register(newBenchHandler())
	return services.NewPreflight(reg)
}

func BenchmarkPreflightCheck(b *testing.B) {
	ctx := context.Background()
	tenantID := uuid.New()
	preflight := newBenchPreflight()

	b.Run("CreateBoundRefs", func(b *testing.B) {
		payload := createPayload(1)
		tempMap := map[string]int64{"tmp-cat-1": 7}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = preflight.Check(ctx, nil, tenantID, "product",
				domain.ActionCreate, payload, tempMap, nil)
		}
	})

	b.Run("CreatePendingRefs", func(b *testing.B) {
		payload := createPayload(1)
		pendingTmp := map[string]bool{"tmp-cat-1": true}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = preflight.Check(ctx, nil, tenantID, "product",
				domain.ActionCreate, payload, nil, pendingTmp)
		}
	})

	b.Run("UpdateServerID", func(b *testing.B) {
		payload := map[string]interface{}{
			"id":       float64(42),
			"name":     "Renamed Widget",
			"quantity": float64(5),
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = preflight.Check(ctx, nil, tenantID, "product",
				domain.ActionUpdate, payload, nil, nil)
		}
	})

	b.Run("Delete", func(b *testing.B) {
		payload := map[string]interface{}{"id": float64(42)}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = preflight.Check(ctx, nil, tenantID, "product",
				domain.ActionDelete, payload, nil, nil)
		}
	})
}

func BenchmarkPreflightBatch(b *testing.B) {
	ctx := context.Background()
	tenantID := uuid.New()
	preflight := newBenchPreflight()

	for _, size := range []int{10, 100, 500} {
		b.Run(fmt.Sprintf("ops_%d", size), func(b *testing.B) {
			ops := createBatch(size)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				pendingTmp := make(map[string]bool, len(ops))
				for _, op := range ops {
					if tmp, ok := registry.StringField(op.Payload, "tmp_id"); ok {
						pendingTmp[tmp] = true
					}
					_, _ = preflight.Check(ctx, nil, tenantID, op.EntityType,
						domain.OpAction(op.Action), op.Payload, nil, pendingTmp)
				}
			}
		})
	}
}

func BenchmarkInt64Field(b *testing.B) {
	payloads := []map[string]interface{}{
		{"id": int64(42)},
		{"id": float64(42)},
		{"id": json.Number("42")},
		{"id": "42"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		registry.Int64Field(payloads[i%len(payloads)], "id")
	}
}

func BenchmarkDeltaSerialization(b *testing.B) {
	rows := make([]map[string]interface{}, 100)
	for i := range rows {
		rows[i] = map[string]interface{}{
			"id":       int64(i),
			"name":     fmt.Sprintf("Widget %d", i),
			"sku":      fmt.Sprintf("SKU-%06d", i),
			"price":    "19.99",
			"quantity": 10,
		}
	}
	delta := &ports.DownloadResult{
		DeviceID: "bench-device",
		Since:    0,
		Cursor:   100,
		Data:     map[string][]map[string]interface{}{"product": rows},
		Deleted:  map[string][]int64{"product": {3, 7}},
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = json.Marshal(delta)
	}
}

func BenchmarkMemoryAllocation(b *testing.B) {
	b.Run("ClientOperation", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = ports.ClientOperation{
				ClientChangeID: "chg-000001",
				EntityType:     "product",
				Action:         "create",
				Payload:        map[string]interface{}{"name": "Widget", "sku": "SKU-1"},
			}
		}
	})

	b.Run("DownloadResult", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = &ports.DownloadResult{
				DeviceID: "bench-device",
				Cursor:   42,
				Data:     make(map[string][]map[string]interface{}),
				Deleted:  make(map[string][]int64),
			}
		}
	})
}
