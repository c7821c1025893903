package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/erp-fulfillment/pkg/config"
)

const (
	defaultMaxConns  = 25
	defaultMinConns  = 2
	defaultPort      = "5432"
	applicationName  = "erp-fulfillment"
	fallbackResolver = "8.8.8.8:53"
)

// lookupIPv4 resuelve host a una dirección IPv4; reemplazable en tests.
var lookupIPv4 = resolveIPv4

// NewPool abre el pool de PostgreSQL y verifica la conexión con Ping.
// Cada conexión registra el codec NUMERIC -> decimal.Decimal.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// poolConfig arma la configuración del pool sin abrir conexiones.
func poolConfig(cfg config.DBConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(connString(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	pc.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 {
		pc.MaxConns = int32(cfg.MaxConns)
	}
	pc.MinConns = min(int32(defaultMinConns), pc.MaxConns)
	pc.MaxConnLifetime = time.Hour
	pc.MaxConnIdleTime = 30 * time.Minute
	pc.HealthCheckPeriod = time.Minute

	if _, ok := pc.ConnConfig.RuntimeParams["application_name"]; !ok {
		pc.ConnConfig.RuntimeParams["application_name"] = applicationName
	}
	// Los contenedores sin IPv6 no alcanzan hosts que resuelven primero a AAAA.
	pc.ConnConfig.DialFunc = dialPreferIPv4
	pc.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return pc, nil
}

// connString DATABASE_URL o el DSN de los campos DB_*, con el host ya traducido a IPv4 si resuelve.
func connString(cfg config.DBConfig) string {
	if cfg.DatabaseURL == "" {
		if ip, err := lookupIPv4(cfg.Host); err == nil {
			cfg.Host = ip
		}
		return cfg.DSN()
	}

	u, err := url.Parse(cfg.DatabaseURL)
	if err != nil {
		return cfg.DatabaseURL
	}
	ip, err := lookupIPv4(u.Hostname())
	if err != nil {
		return cfg.DatabaseURL
	}
	port := u.Port()
	if port == "" {
		port = defaultPort
	}
	u.Host = net.JoinHostPort(ip, port)
	return u.String()
}

func dialPreferIPv4(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	ip, err := lookupIPv4(host)
	if err != nil {
		return d.DialContext(ctx, network, addr)
	}
	return d.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
}

// resolveIPv4 consulta el resolver del sistema y, si no hay registro A, un DNS público.
func resolveIPv4(host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() != nil {
			return host, nil
		}
		return "", errors.New("dirección IPv6 literal")
	}
	if ip, err := firstIPv4(net.DefaultResolver, host); err == nil {
		return ip, nil
	}
	public := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "udp", fallbackResolver)
		},
	}
	return firstIPv4(public, host)
}

func firstIPv4(r *net.Resolver, host string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ips, err := r.LookupIP(ctx, "ip4", host)
	if err != nil {
		return "", err
	}
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4.String(), nil
		}
	}
	return "", fmt.Errorf("%s sin registro A", host)
}
