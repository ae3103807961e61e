// que processes NationStates puppet lists: founding, settings, flags,
// region moves, card bids, bulk endorsements and World Assembly votes.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/unshleepd/que/internal/config"
	"github.com/unshleepd/que/internal/database"
	"github.com/unshleepd/que/internal/events"
	"github.com/unshleepd/que/internal/logging"
	"github.com/unshleepd/que/internal/nsapi"
	"github.com/unshleepd/que/internal/puppets"
	"github.com/unshleepd/que/internal/runner"
	"github.com/unshleepd/que/internal/tasks"
)

const (
	scriptName    = "Que"
	scriptVersion = "3.0.0"
	scriptAuthor  = "Unshleepd"
)

func main() {
	configPath := flag.String("config", "config.env", "Path to the profile env file")
	cardsPath := flag.String("cards", "cards.env", "Path to the card bids env file")
	settingsPath := flag.String("ini", "Settings.ini", "Path to the tool settings file")

	nationsFile := flag.String("nations", "", "Process the nations listed in this file")
	taskFile := flag.String("task", "", "Run a task defined in a YAML file")

	endorser := flag.String("endorser", "", "Endorse as this nation")
	targetsFile := flag.String("targets", "", "Endorse the nations listed in this file")

	voteNation := flag.String("vote", "", "Cast a World Assembly vote as this nation")
	council := flag.String("council", "ga", "World Assembly chamber: ga or sc")
	choice := flag.String("choice", "for", "Vote choice: for or against")

	interactive := flag.Bool("interactive", false, "Prompt before founding missing nations")
	changeSettings := flag.Bool("change-settings", true, "Apply profile settings to each puppet")
	changeFlag := flag.Bool("change-flag", true, "Apply the profile flag to each puppet")
	moveRegion := flag.Bool("move-region", true, "Move each puppet to the target region")
	placeBids := flag.Bool("place-bids", true, "Place the configured card bids from each puppet")
	flag.Parse()

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger("que").SetMinLevel(logging.ParseLevel(settings.LogLevel))
	logFile, err := os.OpenFile(settings.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", settings.LogFile, err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger.AddOutput(logFile)

	bus := events.NewEventBus(64)
	defer bus.Stop()

	// Mirror formatted log lines onto the bus for any attached front end.
	logger.AddOutput(logging.WriterFunc(func(p []byte) (int, error) {
		bus.Publish(events.NewLogLineEvent(strings.TrimRight(string(p), "\n")))
		return len(p), nil
	}))

	journal, err := logging.NewEventLogger(bus, "logs")
	if err != nil {
		logger.Warnf("Event journal unavailable: %v", err)
	} else {
		defer journal.Close()
	}

	// Configuration errors abort the run with a single logged message.
	profile, err := config.LoadProfile(*configPath, *cardsPath)
	if err != nil {
		logger.Error("Configuration error", err)
		os.Exit(1)
	}

	session := nsapi.New(scriptName, scriptVersion, scriptAuthor, profile.UserAgent)
	session.SetRequestInterval(time.Duration(settings.RequestIntervalMs) * time.Millisecond)

	processor := puppets.NewProcessor(session, profile, logger.WithComponent("processor"))

	recorders := runner.MultiRecorder{runner.NewBusRecorder(bus)}

	// The puppet registry is best effort; a broken database never blocks
	// a batch.
	if db, err := database.Open(settings.DatabasePath); err != nil {
		logger.Warnf("Puppet registry unavailable: %v", err)
	} else if err := db.RunMigrations(); err != nil {
		logger.Warnf("Puppet registry unavailable: %v", err)
		db.Close()
	} else {
		defer db.Close()
		dbRecorder := runner.NewDBRecorder(db, logger.WithComponent("registry"), scriptVersion)
		dbRecorder.TargetRegion = profile.TargetRegion
		recorders = append(recorders, dbRecorder)
	}
	processor.WithRecorder(recorders)

	if *interactive || settings.Interactive {
		processor.WithConfirm(promptFounding)
	}

	switches := puppets.Switches{
		ChangeSettings: settings.ChangeSettings,
		ChangeFlag:     settings.ChangeFlag,
		MoveRegion:     settings.MoveRegion,
		PlaceBids:      settings.PlaceBids,
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "change-settings":
			switches.ChangeSettings = *changeSettings
		case "change-flag":
			switches.ChangeFlag = *changeFlag
		case "move-region":
			switches.MoveRegion = *moveRegion
		case "place-bids":
			switches.PlaceBids = *placeBids
		}
	})

	run := runner.New(bus, logger.WithComponent("runner"))
	bus.Subscribe(events.EventTypeRunProgress, func(event events.Event) {
		if percent, ok := event.Data["percent"].(int); ok {
			fmt.Printf("Progress: %d%%\n", percent)
		}
	})

	ok, err := dispatch(run, processor, profile, switches, dispatchArgs{
		nationsFile: *nationsFile,
		taskFile:    *taskFile,
		endorser:    *endorser,
		targetsFile: *targetsFile,
		voteNation:  *voteNation,
		council:     *council,
		choice:      *choice,
	})
	if err != nil {
		logger.Error("Configuration error", err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}

type dispatchArgs struct {
	nationsFile string
	taskFile    string
	endorser    string
	targetsFile string
	voteNation  string
	council     string
	choice      string
}

// dispatch picks and executes one run from the parsed flags or task file.
// The returned error is a configuration error; the boolean is the batch
// outcome.
func dispatch(run *runner.Runner, processor *puppets.Processor, profile *config.Profile,
	switches puppets.Switches, args dispatchArgs) (bool, error) {

	if args.taskFile != "" {
		task, err := tasks.LoadFromFile(args.taskFile)
		if err != nil {
			return false, err
		}
		switch task.Kind {
		case tasks.KindProcess:
			return runProcess(run, processor, task.NationsFile, task.Switches(switches))
		case tasks.KindEndorse:
			return runEndorse(run, processor, profile, task.Endorser, task.TargetsFile)
		case tasks.KindVote:
			return runVote(run, processor, profile, task.Nation, task.Council, task.Choice)
		}
	}

	if args.nationsFile != "" {
		return runProcess(run, processor, args.nationsFile, switches)
	}
	if args.endorser != "" {
		return runEndorse(run, processor, profile, args.endorser, args.targetsFile)
	}
	if args.voteNation != "" {
		return runVote(run, processor, profile, args.voteNation, args.council, args.choice)
	}

	flag.Usage()
	return false, fmt.Errorf("nothing to do: pass -nations, -endorser, -vote or -task")
}

func runProcess(run *runner.Runner, processor *puppets.Processor,
	nationsFile string, switches puppets.Switches) (bool, error) {

	nations, err := puppets.ReadNationList(nationsFile)
	if err != nil {
		return false, err
	}

	// Per-account failures are logged, not aggregated; the run itself
	// succeeds once the loop has covered the list.
	err = run.Start(runner.KindProcess, len(nations), func(progress puppets.ProgressFunc) bool {
		processor.WithProgress(progress).ProcessNations(nations, switches)
		return true
	}, nil)
	if err != nil {
		return false, err
	}
	run.Wait()
	return true, nil
}

func runEndorse(run *runner.Runner, processor *puppets.Processor, profile *config.Profile,
	endorser, targetsFile string) (bool, error) {

	if targetsFile == "" {
		return false, fmt.Errorf("endorse runs require a targets file")
	}
	targets, err := puppets.ReadNationList(targetsFile)
	if err != nil {
		return false, err
	}

	var ok bool
	err = run.Start(runner.KindEndorse, len(targets), func(progress puppets.ProgressFunc) bool {
		return processor.WithProgress(progress).EndorseNations(endorser, profile.Password, targets)
	}, func(result bool) { ok = result })
	if err != nil {
		return false, err
	}
	run.Wait()
	return ok, nil
}

func runVote(run *runner.Runner, processor *puppets.Processor, profile *config.Profile,
	nation, council, choice string) (bool, error) {

	var ok bool
	err := run.Start(runner.KindVote, 1, func(progress puppets.ProgressFunc) bool {
		result := processor.CastVote(nation, profile.Password, council, choice)
		progress(100)
		return result
	}, func(result bool) { ok = result })
	if err != nil {
		return false, err
	}
	run.Wait()
	return ok, nil
}

// promptFounding repeats the question until a valid y/n answer is given.
func promptFounding(nation string) bool {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("Do you want to create %s? (y/n): ", nation)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y":
			return true
		case "n":
			fmt.Println("Skipping creation.")
			return false
		default:
			fmt.Println("Invalid input, please respond with 'y' or 'n'.")
		}
	}
}
