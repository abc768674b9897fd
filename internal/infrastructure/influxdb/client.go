// Package influxdb ships check-in telemetry to InfluxDB. It is an
// optional sink: when disabled in config the rest of the system runs
// unchanged, and write failures never surface into the check-in path.
package influxdb

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/machinech97-sudo/fleetrms/internal/infrastructure/config"
)

// Logger is a minimal logging interface for write error reporting.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Client wraps the InfluxDB client with a non-blocking write API.
// Points are batched and flushed in the background.
type Client struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	bucket   string
}

// New creates an InfluxDB client from configuration and verifies
// connectivity. Write errors after startup are logged, not returned.
func New(ctx context.Context, cfg config.InfluxDBConfig, logger Logger) (*Client, error) {
	opts := influxdb2.DefaultOptions().
		SetBatchSize(uint(cfg.BatchSize)).
		SetFlushInterval(uint(cfg.FlushInterval * 1000))

	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, opts)

	health, err := client.Health(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("checking influxdb health: %w", err)
	}
	if health.Status != "pass" {
		client.Close()
		return nil, fmt.Errorf("influxdb unhealthy: %s", health.Status)
	}

	writeAPI := client.WriteAPI(cfg.Org, cfg.Bucket)

	// Drain async write errors so batching failures are visible.
	go func() {
		for err := range writeAPI.Errors() {
			logger.Warn("influxdb write failed", "error", err)
		}
	}()

	return &Client{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.Bucket,
	}, nil
}

// WriteCheckIn records a device heartbeat as a point in the checkin
// measurement. Satisfies the device registry's MetricsWriter.
func (c *Client) WriteCheckIn(deviceID string, batteryLevel *int, at time.Time) {
	p := influxdb2.NewPointWithMeasurement("checkin").
		AddTag("device_id", deviceID).
		SetTime(at)

	if batteryLevel != nil {
		p.AddField("battery_level", *batteryLevel)
	} else {
		p.AddField("contact", 1)
	}

	c.writeAPI.WritePoint(p)
}

// Close flushes buffered points and shuts down the client.
func (c *Client) Close() {
	c.writeAPI.Flush()
	c.client.Close()
}
