package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/b3dash/internal/scheduler"
	"github.com/wonny/b3dash/internal/scheduler/jobs"
)

var schedulerWithDB bool

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행

Example:
  go run ./cmd/b3dash scheduler start
  go run ./cmd/b3dash scheduler list
  go run ./cmd/b3dash scheduler run ticker_refresh`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- ticker_refresh: 매일 06:00 (캐시가 신선하면 생략)
- history_export: 평일 19:00 (이력 CSV 내보내기)

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)

	schedulerCmd.PersistentFlags().BoolVar(&schedulerWithDB, "db", false, "history_export 가 PostgreSQL 에도 저장")
}

// initScheduler wires the jobs; the returned cleanup closes connections
func initScheduler(ctx context.Context) (*scheduler.Scheduler, func(), error) {
	a, err := newApp()
	if err != nil {
		return nil, nil, err
	}

	exporter, _, closeDB, err := a.newExporter(ctx, schedulerWithDB)
	if err != nil {
		a.Close()
		return nil, nil, err
	}

	sched := scheduler.New(a.log)
	for _, job := range []scheduler.Job{
		jobs.NewTickerRefreshJob(a.tickers, a.log),
		jobs.NewHistoryExportJob(a.tickers, exporter, a.log),
	} {
		if err := sched.AddJob(job); err != nil {
			closeDB()
			a.Close()
			return nil, nil, err
		}
	}

	return sched, func() {
		closeDB()
		a.Close()
	}, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	PrintHeader("b3dash Scheduler")

	sched, cleanup, err := initScheduler(cmd.Context())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, name := range sched.Jobs() {
		fmt.Printf("  - %s (next: %s)\n", name, sched.NextRun(name).Format("2006-01-02 15:04"))
	}
	fmt.Println("\nPress Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := initScheduler(cmd.Context())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	stats := sched.Stats()
	widths := []int{16, 18}
	PrintTableHeader([]string{"Job", "Schedule"}, widths)
	for _, name := range sched.Jobs() {
		PrintTableRow([]string{name, stats[name].Schedule}, widths)
	}
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := initScheduler(cmd.Context())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer cleanup()

	res, err := sched.RunJob(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	PrintKeyValue("Job", res.JobName, 8)
	PrintKeyValue("Duration", res.Duration.String(), 8)
	if !res.Success {
		return fmt.Errorf("job %s failed: %s", res.JobName, res.Error)
	}
	PrintSuccess("Job completed")
	return nil
}
