// Package cli comandos de operación de orderctl: migraciones, cambios de estado y seed.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jhoicas/erp-fulfillment/internal/application/auth"
	"github.com/jhoicas/erp-fulfillment/internal/application/dto"
	"github.com/jhoicas/erp-fulfillment/internal/application/fulfillment"
	"github.com/jhoicas/erp-fulfillment/internal/domain/entity"
	"github.com/jhoicas/erp-fulfillment/internal/infrastructure/postgres"
	"github.com/jhoicas/erp-fulfillment/pkg/config"
	"github.com/jhoicas/erp-fulfillment/pkg/logger"
)

// NewRootCommand construye el comando raíz orderctl.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "orderctl",
		Short:         "Operación del servicio de cumplimiento de pedidos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newOrderCmd())
	root.AddCommand(newUserCmd())
	root.AddCommand(newSeedCmd())

	return root
}

// Execute corre orderctl.
func Execute() error {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

// env dependencias compartidas por los comandos que tocan la BD.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func withEnv(ctx context.Context, fn func(ctx context.Context, e *env) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: cfg.App.Name})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(ctx, &env{cfg: cfg, log: log, pool: pool})
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones de base de datos",
	}

	run := func(fn func(ctx context.Context, m *postgres.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				m, err := postgres.NewMigrator(e.pool, e.log.Component("migrate"))
				if err != nil {
					return err
				}
				defer m.Close()
				return fn(ctx, m)
			})
		}
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Aplicar migraciones pendientes",
		RunE: run(func(ctx context.Context, m *postgres.Migrator) error {
			return m.Up(ctx)
		}),
	}
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Revertir migraciones",
	}
	downCmd.Flags().Int("steps", 1, "cantidad de migraciones a revertir")
	downCmd.RunE = run(func(ctx context.Context, m *postgres.Migrator) error {
		steps, _ := downCmd.Flags().GetInt("steps")
		return m.Down(ctx, steps)
	})
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Estado de las migraciones",
		RunE: run(func(ctx context.Context, m *postgres.Migrator) error {
			return m.Status(ctx)
		}),
	}

	cmd.AddCommand(upCmd, downCmd, statusCmd)
	return cmd
}

func newOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Ciclo de vida de pedidos",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Solicitar cambio de estado",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				loc, err := time.LoadLocation(e.cfg.Fulfillment.Location)
				if err != nil {
					return err
				}
				txRunner, err := postgres.NewTxRunner(e.pool, e.cfg.DB.TxIsolation)
				if err != nil {
					return err
				}
				uc := fulfillment.NewOrderStatusUseCase(txRunner, nil, nil, e.log.Component("fulfillment"),
					fulfillment.Options{Location: loc})
				res := uc.RequestStatusChange(ctx, args[0], args[1])
				if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
				if !res.Success {
					return fmt.Errorf("%s: %s", res.Error.Kind, res.Error.Message)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "next <status>",
		Short: "Estados destino válidos desde un estado",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := fulfillment.NewOrderStatusUseCase(nil, nil, nil, zerolog.Nop(), fulfillment.Options{})
			next, err := uc.ValidNextStatuses(args[0])
			if err != nil {
				return err
			}
			for _, s := range next {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <order-id>",
		Short: "Mostrar pedido con líneas y stock vinculado",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				uc := fulfillment.NewOrderQueryUseCase(
					postgres.NewOrderRepository(e.pool),
					postgres.NewStockMovementRepository(e.pool),
					postgres.NewTransactionRepository(e.pool),
					nil,
				)
				out, err := uc.GetOrder(ctx, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), out)
			})
		},
	})
	return cmd
}

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Usuarios de la API",
	}
	create := &cobra.Command{
		Use:   "create",
		Short: "Crear usuario (password con bcrypt)",
	}
	create.Flags().String("email", "", "email del usuario")
	create.Flags().String("password", "", "password (mínimo 8 caracteres)")
	create.Flags().String("name", "", "nombre visible")
	create.Flags().String("role", entity.RoleVendedor, "admin | bodeguero | vendedor")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")
	create.RunE = func(cmd *cobra.Command, _ []string) error {
		var in dto.CreateUserRequest
		in.Email, _ = create.Flags().GetString("email")
		in.Password, _ = create.Flags().GetString("password")
		in.Name, _ = create.Flags().GetString("name")
		in.Role, _ = create.Flags().GetString("role")
		return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
			uc := auth.NewAuthUseCase(postgres.NewUserRepository(e.pool), auth.JWTConfig{})
			out, err := uc.CreateUser(ctx, in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		})
	}
	cmd.AddCommand(create)
	return cmd
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Datos de ejemplo",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "demo",
		Short: "Crear registros de stock y un pedido en draft",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd.Context(), func(ctx context.Context, e *env) error {
				o, err := seedDemo(ctx, e.pool, time.Now())
				if err != nil {
					return err
				}
				e.log.Info().Str("order_id", o.ID).Str("order_number", o.OrderNumber).Msg("seed demo aplicado")
				return writeJSON(cmd.OutOrStdout(), fulfillment.ToOrderResponse(o))
			})
		},
	})
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
