package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"deprovtool/internal/common/logger"
	"deprovtool/internal/common/security"
	"deprovtool/internal/common/validation"
	"deprovtool/internal/common/version"
	"deprovtool/internal/dataset"
	"deprovtool/internal/deprov"
)

func newGenerateCommand() *cobra.Command {
	config := NewConfig()
	cmd := &cobra.Command{
		Use:   ActionGenerate,
		Short: "Generate the deprovisioning checklist for one account",
		Long: `Generate reads the supplied exports, correlates them on the account's
principal name and prints the checklist followed by the warnings ("Avvisi").
Notices about missing, unreadable or incomplete exports go to stderr.

Every flag can also be set through an environment variable with the DEPROV
prefix, e.g. DEPROVUPN or DEPROVGROUPMEMBERS.`,
		Example: `  deprovtool generate --upn a.b.ext@example.com
  deprovtool generate --upn a.b.ext@example.com --ticket TT123 --directory users.xlsx --mailboxes mbx.csv --output .`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.resolve(cmd.Flags(), os.Getenv); err != nil {
				auditConfigFailure(config, err, cmd.ErrOrStderr())
				return err
			}
			return runGenerate(cmd.Context(), config, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	config.bindFlags(cmd.Flags())
	return cmd
}

// auditColumns is the header of the generate audit log.
var auditColumns = []string{"RunID", "Action", "Status", "Identity", "Ticket", "Datasets", "Steps", "Warnings", "Notices", "Export", "Error"}

// inputFile pairs one export path with its dataset label and flag.
type inputFile struct {
	label  string
	flag   string
	path   string
	target **dataset.Dataset
}

func inputFiles(config *Config, in *deprov.Inputs) []inputFile {
	return []inputFile{
		{deprov.LabelDirectory, "directory", config.Directory, &in.Directory},
		{deprov.LabelSharedMailboxes, "shared-mailboxes", config.SharedMailboxes, &in.SharedMailboxes},
		{deprov.LabelGroupMembers, "group-members", config.GroupMembers, &in.GroupMembers},
		{deprov.LabelMailboxes, "mailboxes", config.Mailboxes, &in.Mailboxes},
		{deprov.LabelGroupOwners, "group-owners", config.GroupOwners, &in.GroupOwners},
	}
}

// loadInputs reads every supplied export. A file that cannot be read becomes
// an error notice and its dataset stays absent.
func loadInputs(ctx context.Context, config *Config, slogger *slog.Logger) (deprov.Inputs, []deprov.Notice, error) {
	var (
		in         deprov.Inputs
		unreadable []deprov.Notice
	)
	for _, f := range inputFiles(config, &in) {
		if err := ctx.Err(); err != nil {
			return in, unreadable, err
		}
		if f.path == "" {
			continue
		}
		err := validation.ValidateInputFile(f.path, f.flag)
		if err == nil {
			*f.target, err = dataset.LoadFile(f.label, f.path)
		}
		if err != nil {
			logger.LogDebug(slogger, "Export could not be read", "dataset", f.label, "path", f.path, "error", err)
			unreadable = append(unreadable, deprov.UnreadableNotice(f.label, err))
			continue
		}
		logger.LogDebug(slogger, "Loaded export", "dataset", f.label, "path", f.path,
			"columns", len((*f.target).Headers()), "rows", (*f.target).Len())
	}
	return in, unreadable, nil
}

// runGenerate loads the exports, builds the report and writes it to stdout,
// the notices to stderr and the optional text export to OutputDir.
func runGenerate(ctx context.Context, config *Config, stdout, stderr io.Writer) (err error) {
	slogger := logger.SetupLogger(stderr, config.VerboseMode, config.LogLevel)
	logger.LogInfo(slogger, "Application starting", "version", version.Get(), "action", ActionGenerate)

	if vErr := validation.ValidatePrincipalName(config.Identity); vErr != nil {
		logger.LogWarn(slogger, "Identity does not look like a principal name, matching anyway", "error", vErr)
	}

	audit := newAuditRow(config)
	auditLogger := openAuditLog(config, slogger)
	if auditLogger != nil {
		defer auditLogger.Close()
	}
	defer func() {
		if err != nil {
			logger.LogError(slogger, "generate failed", "error", err)
			audit.fail(err)
		}
		writeAuditRow(auditLogger, audit, slogger)
	}()

	schema, err := deprov.LoadSchema(config.SchemaFile)
	if err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}

	in, unreadable, err := loadInputs(ctx, config, slogger)
	if err != nil {
		return err
	}

	report, err := deprov.Generate(deprov.Request{
		Identity: config.Identity,
		Ticket:   config.Ticket,
		PSTPath:  config.PSTPath,
	}, in, schema)
	if err != nil {
		return err
	}
	report.PrependNotices(unreadable...)
	audit.record(in, report)

	if config.OutputDir != "" {
		path, err := writeExport(config.OutputDir, report)
		if err != nil {
			return err
		}
		audit.export = path
		logger.LogInfo(slogger, "Checklist exported", "path", path)
	}

	printNotices(stderr, report.Notices)
	printReport(stdout, report)

	logger.LogInfo(slogger, "generate completed successfully",
		"steps", report.Checklist.Steps(), "warnings", len(report.Warnings), "notices", len(report.Notices))
	return nil
}

// printReport writes the checklist and, when present, the warnings.
func printReport(w io.Writer, report *deprov.Report) {
	fmt.Fprintln(w, report.Checklist.Text())
	if len(report.Warnings) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Avvisi:")
	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "- %s\n", warning)
	}
}

func printNotices(w io.Writer, notices []deprov.Notice) {
	for _, n := range notices {
		fmt.Fprintln(w, n.String())
	}
}

// writeExport saves the checklist text under dir and returns the file path.
func writeExport(dir string, report *deprov.Report) (string, error) {
	path := filepath.Join(dir, deprov.ExportFileName(report.Directory.DisplayName, report.Identity))
	if err := os.WriteFile(path, []byte(report.Checklist.Text()), 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

// auditRow accumulates the fields of one audit log row.
type auditRow struct {
	runID    string
	identity string
	ticket   string
	status   string
	datasets string
	steps    int
	warnings int
	notices  int
	export   string
	errText  string
}

func newAuditRow(config *Config) *auditRow {
	return &auditRow{
		runID:    uuid.NewString(),
		identity: security.MaskEmail(config.Identity),
		ticket:   security.MaskTicket(strings.TrimSpace(config.Ticket)),
		status:   "SUCCESS",
	}
}

func (a *auditRow) record(in deprov.Inputs, report *deprov.Report) {
	a.datasets = strings.Join(in.Supplied(), ";")
	a.steps = report.Checklist.Steps()
	a.warnings = len(report.Warnings)
	a.notices = len(report.Notices)
}

func (a *auditRow) fail(err error) {
	a.status = "FAILURE"
	a.errText = err.Error()
}

func (a *auditRow) fields() []string {
	return []string{
		a.runID, ActionGenerate, a.status, a.identity, a.ticket, a.datasets,
		strconv.Itoa(a.steps), strconv.Itoa(a.warnings), strconv.Itoa(a.notices),
		a.export, a.errText,
	}
}

// auditConfigFailure records a run rejected during configuration, such as a
// missing identity, as a FAILURE row.
func auditConfigFailure(config *Config, err error, stderr io.Writer) {
	slogger := logger.SetupLogger(stderr, config.VerboseMode, config.LogLevel)
	logger.LogError(slogger, "Invalid configuration", "error", err)

	auditLogger := openAuditLog(config, slogger)
	if auditLogger == nil {
		return
	}
	defer auditLogger.Close()

	row := newAuditRow(config)
	row.fail(err)
	writeAuditRow(auditLogger, row, slogger)
}

// openAuditLog opens the audit log. Failure is logged and the run continues
// without one.
func openAuditLog(config *Config, slogger *slog.Logger) logger.Logger {
	format, err := logger.ParseLogFormat(config.LogFormat)
	if err != nil {
		logger.LogWarn(slogger, "Could not initialize audit logging", "error", err)
		return nil
	}
	auditLogger, err := logger.NewLogger(format, config.LogDir, toolName, ActionGenerate)
	if err != nil {
		logger.LogWarn(slogger, "Could not initialize audit logging", "error", err)
		return nil
	}
	logger.LogDebug(slogger, "Audit logging", "path", auditLogger.Path())
	return auditLogger
}

func writeAuditRow(auditLogger logger.Logger, row *auditRow, slogger *slog.Logger) {
	if auditLogger == nil {
		return
	}
	if shouldWrite, err := auditLogger.ShouldWriteHeader(); err == nil && shouldWrite {
		if err := auditLogger.WriteHeader(auditColumns); err != nil {
			logger.LogWarn(slogger, "Could not write audit header", "error", err)
			return
		}
	}
	if err := auditLogger.WriteRow(row.fields()); err != nil {
		logger.LogWarn(slogger, "Could not write audit row", "error", err)
	}
}
