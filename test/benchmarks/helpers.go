// test/benchmarks/helpers.go
package benchmarks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkarlin/stocksync-be/internal/core/ports"
	"github.com/mkarlin/stocksync-be/internal/core/registry"
)

// benchHandler is an in-memory entity handler so preflight benchmarks measure
// validation cost, not database round trips.
type benchHandler struct {
	name   string
	schema registry.Schema
}

func newBenchHandler() *benchHandler {
	return &benchHandler{
		name: "product",
		schema: registry.Schema{
			TextFields: []registry.FieldSpec{
				{Name: "name", MaxLen: 150},
				{Name: "sku", MaxLen: 100},
				{Name: "description", MaxLen: 2000},
			},
			References: []registry.RefSpec{
				{Field: "category_id"},
				{Field: "supplier_id"},
			},
			UniqueFields: []string{"sku"},
		},
	}
}

func (h *benchHandler) Name() string            { return h.name }
func (h *benchHandler) Schema() registry.Schema { return h.schema }

func (h *benchHandler) FindByUnique(ctx context.Context, q ports.Querier, tenantID uuid.UUID, payload map[string]interface{}) (int64, bool, error) {
	return 0, false, nil
}

func (h *benchHandler) ApplyCreate(ctx context.Context, q ports.Querier, tenantID uuid.UUID, payload map[string]interface{}) (int64, error) {
	return 1, nil
}

func (h *benchHandler) GetForUpdate(ctx context.Context, q ports.Querier, tenantID uuid.UUID, id int64) (map[string]interface{}, time.Time, bool, error) {
	return map[string]interface{}{"id": id}, time.Now(), true, nil
}

func (h *benchHandler) ApplyUpdate(ctx context.Context, q ports.Querier, tenantID uuid.UUID, id int64, payload map[string]interface{}) error {
	return nil
}

func (h *benchHandler) ApplyDelete(ctx context.Context, q ports.Querier, tenantID uuid.UUID, id int64) (bool, error) {
	return true, nil
}

func (h *benchHandler) LoadByIDs(ctx context.Context, q ports.Querier, tenantID uuid.UUID, ids []int64) ([]map[string]interface{}, error) {
	rows := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, map[string]interface{}{"id": id})
	}
	return rows, nil
}

// createPayload builds the payload shape a client sends for a new product
func createPayload(i int) map[string]interface{} {
	return map[string]interface{}{
		"tmp_id":          fmt.Sprintf("tmp-%d", i),
		"name":            fmt.Sprintf("Benchmark Widget %d", i),
		"sku":             fmt.Sprintf("SKU-BENCH-%06d", i),
		"description":     "Standard benchmark widget with a mid-sized description field",
		"price":           "19.99",
		"quantity":        float64(i % 100),
		"category_tmp_id": fmt.Sprintf("tmp-cat-%d", i%10),
	}
}

// createBatch builds a batch of create operations with chained temp references
func createBatch(size int) []ports.ClientOperation {
	ops := make([]ports.ClientOperation, 0, size)
	for i := 0; i < size; i++ {
		ops = append(ops, ports.ClientOperation{
			ClientChangeID: fmt.Sprintf("chg-%06d", i),
			EntityType:     "product",
			Action:         "create",
			Payload:        createPayload(i),
		})
	}
	return ops
}
