package sheets

import (
	"context"

	"chitieu/internal/core"
)

// Ports for outbound adapters. The core only needs a read and an append
// against one month partition per call; everything else about the substrate
// (row layout, bootstrap, transport) stays behind these.
type (
	// PartitionReader returns the snapshot of one period's partition. A
	// missing partition is not an error: the snapshot carries empty lists and
	// an Err string instead.
	PartitionReader interface {
		ReadPartition(ctx context.Context, p core.Period) (core.Partition, error)
	}

	// ExpenseAppender appends one derived record to the partition its date
	// falls in, creating the partition (fixed column layout, settlement block
	// seeded with the member registry) when absent. Returns the partition
	// name written to.
	ExpenseAppender interface {
		Append(ctx context.Context, e core.ExpenseRecord) (sheetName string, err error)
	}
)
