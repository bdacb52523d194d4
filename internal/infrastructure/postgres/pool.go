package postgres

import (
	"context"
	"fmt"
	"net"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-api/pkg/config"
)

// NewPool abre el pool de PostgreSQL, registra NUMERIC como decimal.Decimal y
// verifica la conexión con un ping.
func NewPool(ctx context.Context, cfg config.DBConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	// Algunos proveedores publican AAAA antes que A y los contenedores suelen no tener IPv6.
	poolConfig.ConnConfig.DialFunc = dialPreferIPv4

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 && cfg.MinConns <= cfg.MaxConns {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	if cfg.SlowQuery > 0 {
		poolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   slowQueryLogger(log, cfg.SlowQuery),
			LogLevel: tracelog.LogLevelInfo,
		}
	}

	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	log.Info().Int32("max_conns", poolConfig.MaxConns).Str("host", poolConfig.ConnConfig.Host).Msg("pool PostgreSQL listo")
	return pool, nil
}

// dialPreferIPv4 intenta primero las direcciones A del host y cae al dial normal si no hay.
func dialPreferIPv4(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return d.DialContext(ctx, network, addr)
	}
	if ip := net.ParseIP(host); ip != nil {
		return d.DialContext(ctx, network, addr)
	}
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil || len(ips) == 0 {
		return d.DialContext(ctx, network, addr)
	}
	return d.DialContext(ctx, "tcp4", net.JoinHostPort(ips[0].String(), port))
}

// slowQueryLogger registra como warn las consultas que superan el umbral y como
// error las que fallan; el resto del tráfico de pgx se descarta.
func slowQueryLogger(log zerolog.Logger, threshold time.Duration) tracelog.Logger {
	return tracelog.LoggerFunc(func(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		if level == tracelog.LogLevelError {
			log.Error().Fields(data).Msg("pgx: " + msg)
			return
		}
		d, ok := data["time"].(time.Duration)
		if !ok || d < threshold {
			return
		}
		log.Warn().Dur("elapsed", d).Interface("sql", data["sql"]).Msg("pgx: consulta lenta")
	})
}
