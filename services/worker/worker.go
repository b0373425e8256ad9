package worker

import (
	"context"
	"encoding/json"
	"time"

	"sjsage522/invoicerobot/helpers"
	"sjsage522/invoicerobot/internal"
	"sjsage522/invoicerobot/internal/crawler"
	"sjsage522/invoicerobot/internal/datepolicy"
	"sjsage522/invoicerobot/logger"
	roboterr "sjsage522/invoicerobot/pkg/errors"
	"sjsage522/invoicerobot/services/cache"
	"sjsage522/invoicerobot/services/fetcher"
	"sjsage522/invoicerobot/services/ledger"
	"sjsage522/invoicerobot/services/publisher"
	"sjsage522/invoicerobot/services/storage"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const (
	// SuccessMessage is the status line of a run that paginated to the end
	SuccessMessage = "Processo concluído com Sucesso."
	// FailureMessage is the status line of a run that ended on an error
	FailureMessage = "Processo teve falhas durante a execução. Verificar!"

	errorImageBase = "erro"
	reportKey      = "run_report"
)

// Options holds the fixed paths and target of a run
type Options struct {
	TargetURL      string
	ResultsDir     string
	ImagesDir      string
	ErrorImagesDir string
	Columns        []string
}

// Worker runs the extraction state machine: INITIALIZING, PROCESSING, ENDING.
// A Worker performs a single run and is not safe for concurrent use.
type Worker struct {
	fs          afero.Fs
	openSession crawler.SessionFactory
	fetcher     fetcher.Fetcher
	publisher   publisher.Publisher
	lock        *cache.RunLock
	logger      *logger.Logger
	now         func() time.Time
	opts        Options

	state  RunState
	report RunReport

	session crawler.Session
	ledger  ledger.Ledger
	locked  bool
}

// NewWorker creates a new worker
func NewWorker(deps internal.Dependencies, opts Options) *Worker {
	w := &Worker{
		fs:          deps.FS,
		openSession: deps.OpenSession,
		fetcher:     deps.Fetcher,
		publisher:   deps.Publisher,
		logger:      deps.Logger,
		now:         deps.Now,
		opts:        opts,
	}
	if w.fs == nil {
		w.fs = afero.NewOsFs()
	}
	if w.publisher == nil {
		w.publisher = publisher.NopPublisher{}
	}
	if w.logger == nil {
		w.logger = logger.ForWorker()
	}
	if w.now == nil {
		w.now = time.Now
	}

	w.report.RunID = uuid.NewString()
	if deps.Cache != nil {
		w.lock = cache.NewRunLock(deps.Cache, w.report.RunID, deps.LockTTL)
	}
	w.logger = w.logger.WithField("run_id", w.report.RunID)
	return w
}

// State returns a copy of the current run state
func (w *Worker) State() RunState {
	return w.state
}

// Run drives the state machine to completion and returns the run report
func (w *Worker) Run(ctx context.Context) RunReport {
	w.state = RunState{
		Phase:          PhaseInitializing,
		IsFirstPass:    true,
		ImagesDir:      w.opts.ImagesDir,
		ErrorImagesDir: w.opts.ErrorImagesDir,
	}
	w.report.StartedAt = w.now()
	w.report.ImagesDir = w.opts.ImagesDir
	w.report.ErrorImagesDir = w.opts.ErrorImagesDir

	for {
		switch w.state.Phase {
		case PhaseInitializing:
			w.logger.Info().Msg("Iniciando o Processo.")
			if err := w.initialize(ctx); err != nil {
				w.recordFailure(err)
				w.logger.Error().Err(err).Str("kind", string(roboterr.KindOf(err))).Msg("Erro durante a inicialização do processo")
				w.transition(PhaseEnding)
				continue
			}
			w.transition(PhaseProcessing)

		case PhaseProcessing:
			outcome, err := w.processPage(ctx)
			if err != nil {
				w.handlePageError(ctx, err)
				w.transition(PhaseEnding)
				continue
			}
			if outcome == outcomeLastPage {
				w.state.Succeeded = true
				w.transition(PhaseEnding)
			}

		case PhaseEnding:
			w.end()
			w.transition(PhaseDone)
			return w.report

		default:
			return w.report
		}
	}
}

func (w *Worker) transition(next Phase) {
	w.logger.Debug().
		Str("from", w.state.Phase.String()).
		Str("to", next.String()).
		Msg("state transition")
	w.state.Phase = next
}

// initialize creates the run directories and ledger, purges stale images and opens the
// browsing session. Nothing here is retried.
func (w *Worker) initialize(ctx context.Context) error {
	if w.lock != nil {
		if err := w.lock.Acquire(); err != nil {
			return err
		}
		w.locked = true
	}

	images, err := storage.NewDirectoryManager(w.fs, w.opts.ImagesDir)
	if err != nil {
		return roboterr.NewSetup("images", "failed to create images directory", err)
	}
	if _, err := storage.NewDirectoryManager(w.fs, w.opts.ErrorImagesDir); err != nil {
		return roboterr.NewSetup("error-images", "failed to create error images directory", err)
	}
	results, err := storage.NewDirectoryManager(w.fs, w.opts.ResultsDir)
	if err != nil {
		return roboterr.NewSetup("results", "failed to create results directory", err)
	}

	l, err := ledger.Create(w.fs, helpers.LedgerFileName(results.Dir(), w.now()), w.opts.Columns)
	if err != nil {
		return err
	}
	w.ledger = l
	w.state.LedgerPath = l.Path()
	w.report.LedgerPath = l.Path()

	if err := images.DeleteFiles(); err != nil {
		return roboterr.NewSetup("images", "failed to purge images directory", err)
	}
	w.logger.Info().
		Str("ledger", l.Path()).
		Str("images", images.Dir()).
		Msg("Diretórios e arquivo CSV criados")

	session, err := w.openSession(ctx)
	if err != nil {
		return roboterr.NewSetup("session", "failed to start browsing session", err)
	}
	w.session = session
	return nil
}

type pageOutcome int

const (
	outcomeMorePages pageOutcome = iota
	outcomeLastPage
)

// processPage runs one PROCESSING pass over the current page
func (w *Worker) processPage(ctx context.Context) (pageOutcome, error) {
	if w.state.IsFirstPass {
		w.state.IsFirstPass = false

		if err := w.session.Open(ctx, w.opts.TargetURL); err != nil {
			return outcomeMorePages, err
		}
		w.logger.Info().Str("url", w.opts.TargetURL).Msg("Inicializou o site")

		if present, err := w.session.TableIsPresent(ctx); err != nil || !present {
			if err == nil {
				err = roboterr.NewTableNotFound("table", nil)
			}
			return outcomeMorePages, err
		}
	}

	w.report.PagesVisited++
	for record, err := range w.session.Rows(ctx) {
		if err != nil {
			return outcomeMorePages, err
		}
		w.report.RowsSeen++

		if !datepolicy.IsOnOrBefore(record.RawDate, datepolicy.SourceLayout, w.now()) {
			w.report.RowsRejected++
			w.logger.Debug().
				Str("invoice", record.InvoiceID).
				Str("date", record.RawDate).
				Msg("row skipped")
			continue
		}

		if err := w.acceptRow(ctx, record); err != nil {
			return outcomeMorePages, err
		}
	}

	if w.session.IsNextDisabled(ctx) {
		w.logger.Info().Int("pages", w.report.PagesVisited).Msg("Botão Next desabilitado, robô fez toda a paginação")
		return outcomeLastPage, nil
	}

	if err := w.session.Advance(ctx); err != nil {
		return outcomeMorePages, err
	}
	w.logger.Info().Msg("Indo para a próxima página")
	return outcomeMorePages, nil
}

// acceptRow reformats the date, downloads the asset and appends the ledger row, in order
func (w *Worker) acceptRow(ctx context.Context, record crawler.RowRecord) error {
	log := w.logger.WithField("invoice", record.InvoiceID)
	log.Info().Str("date", record.RawDate).Msg("row due on or before today")

	formatted, err := datepolicy.ToLedger(record.RawDate)
	if err != nil {
		return err
	}
	row := crawler.AcceptedRow{
		InvoiceID:     record.InvoiceID,
		FormattedDate: formatted,
		AssetURL:      record.AssetURL,
	}

	path, err := w.fetcher.Fetch(ctx, row.AssetURL, w.opts.ImagesDir, helpers.AssetFileName(row.InvoiceID))
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("Download da fatura concluído")

	if err := w.ledger.Append(row.Values()); err != nil {
		return err
	}
	w.report.RowsAccepted++
	log.Info().Msg("Linha da fatura adicionada no arquivo CSV")
	return nil
}

// handlePageError records err and leaves a screenshot of the page behind
func (w *Worker) handlePageError(ctx context.Context, err error) {
	w.recordFailure(err)

	if roboterr.Is(err, roboterr.ErrorTypeTableNotFound) {
		w.logger.Error().Err(err).Msg("Tabela não foi encontrada ao inicializar o site")
	} else {
		w.logger.Error().Err(err).Str("kind", string(roboterr.KindOf(err))).Msg("Erro durante o processamento dos itens")
	}

	path, shotErr := w.captureScreenshot(ctx)
	if shotErr != nil {
		w.logger.Error().Err(shotErr).Msg("failed to capture error screenshot")
		return
	}
	w.report.ScreenshotPath = path
	w.logger.Info().Str("path", path).Msg("error screenshot saved")
}

func (w *Worker) captureScreenshot(ctx context.Context) (string, error) {
	path := helpers.ErrorImageName(w.opts.ErrorImagesDir, errorImageBase, w.now())
	png, err := w.session.Screenshot(ctx)
	if err != nil {
		return "", roboterr.NewScreenshot(path, err)
	}
	if err := afero.WriteFile(w.fs, path, png, 0o644); err != nil {
		return "", roboterr.NewScreenshot(path, err)
	}
	return path, nil
}

func (w *Worker) recordFailure(err error) {
	w.report.FailureKind = string(roboterr.KindOf(err))
	w.report.Failure = err.Error()
}

// end reports the outcome and releases every resource unconditionally
func (w *Worker) end() {
	w.report.Succeeded = w.state.Succeeded
	w.report.FinishedAt = w.now()

	if w.state.Succeeded {
		w.logger.Info().Str("path", w.state.LedgerPath).Msg("Caminho arquivo CSV")
		w.logger.Info().Str("path", w.state.ImagesDir).Msg("Caminho da pasta das faturas")
		w.logger.Info().Msg(SuccessMessage)
	} else {
		w.logger.Alert().Str("path", w.state.ErrorImagesDir).Msg("Imagens de erros disponíveis")
		w.logger.Alert().Msg(FailureMessage)
	}

	if w.session != nil {
		if err := w.session.Close(); err != nil {
			w.logger.Warn().Err(err).Msg("failed to close browsing session")
		}
	}
	if w.ledger != nil {
		if err := w.ledger.Close(); err != nil {
			w.logger.Warn().Err(err).Msg("failed to close ledger")
		}
	}
	if w.locked {
		if err := w.lock.Release(); err != nil {
			w.logger.Warn().Err(err).Msg("failed to release run lock")
		}
	}

	data, err := json.Marshal(w.report)
	if err != nil {
		w.logger.Warn().Err(err).Msg("failed to encode run report")
		return
	}
	if err := w.publisher.Publish(reportKey, data); err != nil {
		w.logger.Warn().Err(err).Msg("failed to publish run report")
	}
}
