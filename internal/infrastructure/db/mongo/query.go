package mongo

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civicvoice/platform/internal/core/ports"
)

// listOptions translates the shared list filter into find options. sortFields
// maps API sort keys to bson field names; unknown keys fall back to created_at.
func listOptions(f ports.ListFilter, sortFields map[string]string) *options.FindOptions {
	field, ok := sortFields[f.SortBy]
	if !ok {
		field = "created_at"
	}
	dir := -1
	if f.SortDir == "asc" {
		dir = 1
	}

	return options.Find().
		SetSort(bson.D{{Key: field, Value: dir}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))
}

// searchClause builds a case-insensitive substring match over the given
// fields. The term is regex-escaped so user input cannot alter the query.
func searchClause(fields []string, term string) bson.M {
	quoted := regexp.QuoteMeta(term)
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: bson.M{"$regex": quoted, "$options": "i"}})
	}
	return bson.M{"$or": or}
}

// listFilter combines an optional status filter and an optional search term.
func listFilter(f ports.ListFilter, searchFields []string) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" && len(searchFields) > 0 {
		filter["$and"] = bson.A{searchClause(searchFields, f.Search)}
	}
	return filter
}

// countByStatus runs the shared stats aggregation: total documents plus a
// per-status breakdown.
func countByStatus(ctx context.Context, col *mongo.Collection) (*ports.StatusCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}

	counts := &ports.StatusCounts{ByStatus: make(map[string]int64, len(rows))}
	for _, row := range rows {
		counts.ByStatus[row.ID] = row.Count
		counts.Total += row.Count
	}
	return counts, nil
}
