package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/jadwal-api/internal/bootstrap"
	"github.com/noah-isme/jadwal-api/internal/dto"
	"github.com/noah-isme/jadwal-api/internal/models"
	"github.com/noah-isme/jadwal-api/internal/service"
	"github.com/noah-isme/jadwal-api/pkg/config"
	"github.com/noah-isme/jadwal-api/pkg/logger"
)

var (
	semester     = string(models.SemesterGanjil)
	academicYear string
	day          string
	count        = service.DefaultMeetingCount
	preferredDay string
	format       = "csv"
	output       string
)

func main() {
	log.SetFlags(0)
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "jadwalctl",
		Short:         "Course scheduling engine tools",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&semester, "semester", "s", semester, "term parity, GANJIL or GENAP")
	root.PersistentFlags().StringVarP(&academicYear, "year", "y", academicYear, "academic year, e.g. 2024/2025")

	cmdMeetings := &cobra.Command{
		Use:   "meetings",
		Short: "print the meeting dates of a weekday in a term",
		Args:  cobra.NoArgs,
		RunE:  commandMeetings,
	}
	cmdMeetings.Flags().StringVarP(&day, "day", "d", day, "weekday, SENIN..SABTU")
	cmdMeetings.Flags().IntVarP(&count, "count", "n", count, "number of meetings")
	root.AddCommand(cmdMeetings)

	cmdPlan := &cobra.Command{
		Use:   "plan",
		Short: "plan the fair student distribution of a term",
		Args:  cobra.NoArgs,
		RunE:  withContainer(commandPlan),
	}
	root.AddCommand(cmdPlan)

	cmdGenerate := &cobra.Command{
		Use:   "generate",
		Short: "generate jadwal for every unscheduled course of a term",
		Args:  cobra.NoArgs,
		RunE:  withContainer(commandGenerate),
	}
	cmdGenerate.Flags().StringVarP(&preferredDay, "day", "d", preferredDay, "place every section on this weekday")
	root.AddCommand(cmdGenerate)

	cmdExport := &cobra.Command{
		Use:   "export",
		Short: "render the committed schedule of a term",
		Args:  cobra.NoArgs,
		RunE:  withContainer(commandExport),
	}
	cmdExport.Flags().StringVarP(&format, "format", "f", format, "csv, pdf or xlsx")
	cmdExport.Flags().StringVarP(&output, "output", "o", output, "output file (default: generated name)")
	root.AddCommand(cmdExport)

	return root
}

func term() models.Term {
	return models.Term{Semester: models.SemesterParity(semester), AcademicYear: academicYear}
}

func commandMeetings(cmd *cobra.Command, args []string) error {
	weekday, err := models.ParseWeekday(day)
	if err != nil {
		return err
	}
	dates, err := service.GenerateMeetingDates(weekday, term(), count)
	if err != nil {
		return err
	}
	for i, date := range dates {
		fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s\n", i+1, date.Format("Mon 2006-01-02"))
	}
	return nil
}

type containerCommand func(ctx context.Context, cmd *cobra.Command, c *bootstrap.Container) error

// withContainer loads configuration and connections for commands that need
// the database.
func withContainer(run containerCommand) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logr, err := logger.New(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer logr.Sync() //nolint:errcheck

		c, err := bootstrap.New(cfg, logr)
		if err != nil {
			logr.Error("bootstrap failed", zap.Error(err))
			return err
		}
		defer c.Close() //nolint:errcheck

		return run(cmd.Context(), cmd, c)
	}
}

func commandPlan(ctx context.Context, cmd *cobra.Command, c *bootstrap.Container) error {
	plan, err := c.Jadwal.PlanDistribution(ctx, dto.TermQuery{Semester: semester, AcademicYear: academicYear})
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), plan)
}

func commandGenerate(ctx context.Context, cmd *cobra.Command, c *bootstrap.Container) error {
	summary, err := c.Jadwal.GenerateAll(ctx, dto.GenerateAllRequest{
		Semester:     semester,
		AcademicYear: academicYear,
		PreferredDay: preferredDay,
	})
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), summary)
}

func commandExport(ctx context.Context, cmd *cobra.Command, c *bootstrap.Container) error {
	file, err := c.Export.Export(ctx, dto.ExportQuery{Semester: semester, AcademicYear: academicYear, Format: format})
	if err != nil {
		return err
	}
	name := output
	if name == "" {
		name = file.Filename
	}
	if err := os.WriteFile(name, file.Body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", name, len(file.Body))
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
