package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/bootstrap"
	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/domain"
	"github.com/KCblama19/Liberia-Pidgin-transcription-app/internal/run"
)

func main() {
	input := flag.String("input", "", "path to the interview audio file to transcribe")
	fast := flag.Bool("fast", false, "use the faster, less accurate decoding mode")
	workers := flag.Int("workers", 0, "number of parallel transcription workers (0 uses settings)")
	checkOnly := flag.Bool("check", false, "run startup diagnostics and exit")
	normalizeText := flag.String("normalize", "", "normalize one Kolokwa phrase and exit")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}

	app, err := bootstrap.New()
	if err != nil {
		log.Fatalf("bootstrap app: %v", err)
	}

	if *normalizeText != "" {
		english, _, confidence := app.NormalizeText(*normalizeText)
		fmt.Printf("%s\n(confidence %.2f)\n", english, confidence)
		return
	}

	report := app.GetDiagnostics()
	printDiagnostics(report)
	if *checkOnly {
		if report.HasFailures {
			os.Exit(1)
		}
		return
	}
	if report.HasFailures {
		log.Fatal("startup diagnostics failed; fix the items above and retry")
	}

	if *input == "" {
		log.Fatal("missing -input: provide an audio file to transcribe")
	}

	settings, err := app.GetSettings()
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}
	changed := false
	if *fast && !settings.FastMode {
		settings.FastMode = true
		changed = true
	}
	if *workers > 0 && *workers != settings.MaxWorkers {
		settings.MaxWorkers = *workers
		changed = true
	}
	if changed {
		if _, err := app.SaveSettings(settings); err != nil {
			log.Fatalf("save settings: %v", err)
		}
	}

	state, err := app.StartRun(*input)
	if err != nil {
		log.Fatalf("start run: %v", err)
	}
	log.Printf("run %s started for %s", state.ID, state.AudioPath)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("cancellation requested, finishing the current chunk")
		if err := app.CancelRun(); err != nil {
			log.Printf("cancel run: %v", err)
		}
	}()

	watchEvents(app, state.ID)
	app.Wait()

	final, err := app.Run(state.ID)
	if err != nil {
		log.Fatalf("load run record: %v", err)
	}
	printOutcome(final)
}

// watchEvents polls the event bus until the run reaches a terminal state.
func watchEvents(app *bootstrap.App, runID string) {
	var since int64
	for {
		for _, event := range app.RunEvents(since) {
			since = event.Seq
			if event.RunID != runID {
				continue
			}
			switch event.Type {
			case run.EventTypeStage:
				log.Printf("stage: %s", event.Stage)
			case run.EventTypeProgress:
				log.Printf("progress: %d%%", event.Progress)
			case run.EventTypeStatus:
				log.Printf("status: %s", event.Status)
			case run.EventTypeError:
				log.Printf("error: %s", event.Message)
			}
			if isTerminal(event.Status) {
				return
			}
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func isTerminal(status domain.RunStatus) bool {
	switch status {
	case domain.RunStatusDone, domain.RunStatusCancelled, domain.RunStatusError:
		return true
	}
	return false
}

// printDiagnostics writes the startup check report to stderr via log.
func printDiagnostics(report domain.DiagnosticReport) {
	for _, item := range report.Items {
		line := fmt.Sprintf("[%s] %s: %s", item.Status, item.Name, item.Message)
		if item.Hint != "" && item.Status == domain.DiagnosticStatusFail {
			line += " (" + item.Hint + ")"
		}
		log.Println(line)
	}
}

// printOutcome writes the final transcript to stdout.
func printOutcome(state domain.RunState) {
	log.Printf("run %s finished with status %s", state.ID, state.Status)
	if state.Status == domain.RunStatusError {
		log.Fatalf("run failed: %s", state.ErrorMessage)
	}

	for _, segment := range state.Segments {
		fmt.Printf("[%8.2f - %8.2f] %s (%s): %s\n",
			segment.Start, segment.End, segment.Speaker, segment.Type, segment.English)
	}
}
