package repository

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListHotspotsQuery(t *testing.T) {
	q, args, err := listHotspotsQuery().Limit(100).ToSql()

	require.NoError(t, err)
	assert.Empty(t, args)
	assert.Contains(t, q, "FROM hotspots h")
	assert.Contains(t, q, "JOIN locations l ON l.id = h.location_id")
	assert.Contains(t, q, "LEFT JOIN LATERAL")
	assert.Contains(t, q, "ORDER BY h.id")
	assert.Contains(t, q, "LIMIT 100")
}

func TestListHotspotsQueryByLocation(t *testing.T) {
	q, args, err := listHotspotsQuery().Where(sq.Eq{"h.location_id": int64(7)}).ToSql()

	require.NoError(t, err)
	assert.Contains(t, q, "h.location_id = $1")
	require.Len(t, args, 1)
	assert.Equal(t, int64(7), args[0])
}

func TestCoordinateUpdateUsesDollarPlaceholders(t *testing.T) {
	q, args, err := psql.Update("locations").
		Set("lat", 52.1).
		Set("lng", 4.6).
		Where(sq.Eq{"id": int64(3)}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "UPDATE locations SET lat = $1, lng = $2 WHERE id = $3", q)
	assert.Equal(t, []interface{}{52.1, 4.6, int64(3)}, args)
}
