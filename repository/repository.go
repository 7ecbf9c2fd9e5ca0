package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openwifimap/backend-api-go/hotspots"
)

// ErrDuplicateHotspot marks a submission for a Wi-Fi name already recorded
// at the same location.
var ErrDuplicateHotspot = errors.New("hotspot already exists at this location with the same wifi name")

// ErrLocationNotFound marks a lookup for an unknown external location id.
var ErrLocationNotFound = errors.New("location not found")

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const queryTimeout = time.Second * 5

type Repository struct {
	pool *pgxpool.Pool
}

func New() *Repository {
	dbUrl := os.Getenv("DB_CONN_STR")
	pool, err := pgxpool.New(context.Background(), dbUrl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}

	return &Repository{
		pool: pool,
	}
}

func (repo *Repository) Close() {
	repo.pool.Close()
}

// listHotspotsQuery joins each hotspot with its location and the most
// recent speed test.
func listHotspotsQuery() sq.SelectBuilder {
	return psql.Select(
		"h.id", "h.wifi_name", "h.wifi_password", "h.category", "h.description",
		"h.submitter_name", "h.submitter_email", "h.submitter_relationship",
		"l.id", "l.external_id", "l.name", "l.address", "l.type", "l.lat", "l.lng",
		"s.id", "s.download", "s.upload", "s.ping", "s.created_at",
	).
		From("hotspots h").
		Join("locations l ON l.id = h.location_id").
		JoinClause("LEFT JOIN LATERAL (" +
			"SELECT id, download, upload, ping, created_at FROM speed_tests st " +
			"WHERE st.hotspot_id = h.id ORDER BY st.created_at DESC LIMIT 1" +
			") s ON true").
		OrderBy("h.id")
}

// ListHotspots returns up to limit hotspots, each with its location and
// latest speed test.
func (repo *Repository) ListHotspots(ctx context.Context, limit int) ([]hotspots.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q, args, err := listHotspotsQuery().Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("could not build hotspots query: %w", err)
	}

	rows, err := repo.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query hotspots: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ListHotspotsByLocation returns every hotspot recorded at one location.
func (repo *Repository) ListHotspotsByLocation(ctx context.Context, locationID int64) ([]hotspots.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q, args, err := listHotspotsQuery().Where(sq.Eq{"h.location_id": locationID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("could not build hotspots query: %w", err)
	}

	rows, err := repo.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query location hotspots: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows pgx.Rows) ([]hotspots.Item, error) {
	var results []hotspots.Item

	for rows.Next() {
		var (
			item      hotspots.Item
			place     hotspots.Place
			lat, lng  *float64
			stID      *int64
			stDown    *float64
			stUp      *float64
			stPing    *float64
			stCreated *time.Time
			relation  *string
		)

		err := rows.Scan(&item.ID, &item.WifiName, &item.WifiPassword, &item.Category, &item.Description,
			&item.SubmitterInfo.Name, &item.SubmitterInfo.Email, &relation,
			&place.ID, &place.ExternalID, &place.Name, &place.Address, &place.Type, &lat, &lng,
			&stID, &stDown, &stUp, &stPing, &stCreated)
		if err != nil {
			continue
		}

		if relation != nil {
			item.SubmitterInfo.Relationship = *relation
		}
		if lat != nil && lng != nil {
			place.Coordinates = &hotspots.Coordinates{Lat: *lat, Lng: *lng}
		}
		item.Location = &place

		if stID != nil {
			st := hotspots.SpeedTest{ID: *stID, HotspotID: item.ID}
			if stDown != nil {
				st.Download = *stDown
			}
			if stUp != nil {
				st.Upload = *stUp
			}
			if stPing != nil {
				st.Ping = *stPing
			}
			if stCreated != nil {
				st.CreatedAt = *stCreated
			}
			item.LatestSpeedTest = &st
		}

		results = append(results, item)
	}

	return results, nil
}

// GetLocationByExternalID resolves the identifier the frontend assigned to
// a geocoded place. Returns ErrLocationNotFound when unknown.
func (repo *Repository) GetLocationByExternalID(ctx context.Context, externalID string) (*hotspots.Place, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q, args, err := psql.Select("id", "external_id", "name", "address", "type", "lat", "lng").
		From("locations").
		Where(sq.Eq{"external_id": externalID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("could not build location query: %w", err)
	}

	var (
		place    hotspots.Place
		lat, lng *float64
	)
	row := repo.pool.QueryRow(ctx, q, args...)
	if err := row.Scan(&place.ID, &place.ExternalID, &place.Name, &place.Address, &place.Type, &lat, &lng); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("could not query location: %w", err)
	}

	if lat != nil && lng != nil {
		place.Coordinates = &hotspots.Coordinates{Lat: *lat, Lng: *lng}
	}

	return &place, nil
}

// CreateHotspotParams carries everything a POST /api/hotspots records.
type CreateHotspotParams struct {
	ExternalID   string
	Name         string
	Address      string
	LocationType string
	Coordinates  *hotspots.Coordinates
	WifiName     string
	WifiPassword string
	Category     hotspots.Category
	Description  string
	Download     float64
	Upload       float64
	Ping         float64
	Submitter    hotspots.SubmitterInfo
}

// CreateResult is what a successful submission produced.
type CreateResult struct {
	Location  hotspots.Place     `json:"location"`
	Hotspot   hotspots.Item      `json:"hotspot"`
	SpeedTest hotspots.SpeedTest `json:"speedTest"`
}

// CreateHotspot finds or creates the location, records the hotspot and its
// speed test in one transaction. A second hotspot with the same Wi-Fi name
// at the same location fails with ErrDuplicateHotspot.
func (repo *Repository) CreateHotspot(ctx context.Context, params CreateHotspotParams) (*CreateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := repo.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	place := hotspots.Place{
		ExternalID:  params.ExternalID,
		Name:        params.Name,
		Address:     params.Address,
		Type:        params.LocationType,
		Coordinates: params.Coordinates,
	}

	row := tx.QueryRow(ctx, "SELECT id FROM locations WHERE external_id = $1", params.ExternalID)
	if err := row.Scan(&place.ID); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("could not query location: %w", err)
		}

		var lat, lng *float64
		if params.Coordinates != nil {
			lat = &params.Coordinates.Lat
			lng = &params.Coordinates.Lng
		}
		row = tx.QueryRow(ctx,
			`INSERT INTO locations(external_id, name, address, type, lat, lng) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			params.ExternalID, params.Name, params.Address, params.LocationType, lat, lng)
		if err := row.Scan(&place.ID); err != nil {
			return nil, fmt.Errorf("could not insert location: %w", err)
		}
	}

	var existing int64
	row = tx.QueryRow(ctx, "SELECT id FROM hotspots WHERE location_id = $1 AND wifi_name = $2", place.ID, params.WifiName)
	if err := row.Scan(&existing); err == nil {
		return nil, ErrDuplicateHotspot
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("could not query hotspot: %w", err)
	}

	item := hotspots.Item{
		WifiName:      params.WifiName,
		Category:      params.Category,
		SubmitterInfo: params.Submitter,
	}
	if params.WifiPassword != "" {
		item.WifiPassword = &params.WifiPassword
	}
	if params.Description != "" {
		item.Description = &params.Description
	}

	row = tx.QueryRow(ctx,
		`INSERT INTO hotspots(location_id, wifi_name, wifi_password, category, description, submitter_name, submitter_email, submitter_relationship)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		place.ID, params.WifiName, item.WifiPassword, params.Category, item.Description,
		params.Submitter.Name, params.Submitter.Email, params.Submitter.Relationship)
	if err := row.Scan(&item.ID); err != nil {
		return nil, fmt.Errorf("could not insert hotspot: %w", err)
	}

	speedTest := hotspots.SpeedTest{
		HotspotID: item.ID,
		Download:  params.Download,
		Upload:    params.Upload,
		Ping:      params.Ping,
	}
	row = tx.QueryRow(ctx,
		`INSERT INTO speed_tests(hotspot_id, download, upload, ping, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		item.ID, params.Download, params.Upload, params.Ping, time.Now().UTC())
	if err := row.Scan(&speedTest.ID, &speedTest.CreatedAt); err != nil {
		return nil, fmt.Errorf("could not insert speed test: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("could not commit submission: %w", err)
	}

	return &CreateResult{Location: place, Hotspot: item, SpeedTest: speedTest}, nil
}

// UpdateLocationCoordinates stores geocoded coordinates resolved after the
// fact by the consumer.
func (repo *Repository) UpdateLocationCoordinates(ctx context.Context, locationID int64, lat, lng float64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	q, args, err := psql.Update("locations").
		Set("lat", lat).
		Set("lng", lng).
		Where(sq.Eq{"id": locationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("could not build location update: %w", err)
	}

	if _, err := repo.pool.Exec(ctx, q, args...); err != nil {
		return fmt.Errorf("could not update location coordinates: %w", err)
	}

	return nil
}
