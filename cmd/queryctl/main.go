package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"poultryqa/internal/config"
	"poultryqa/internal/domain"
	"poultryqa/internal/engine"
	"poultryqa/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	op := flag.String("op", "ask", "operation: ask|answer_clarification|expand_knowledge|perf_lookup|health")
	question := flag.String("q", "", "question text (ask, expand_knowledge)")
	language := flag.String("lang", "", "language code, defaults to the configured default")
	conversationID := flag.String("conversation", "", "conversation id (ask, answer_clarification)")
	answersFlag := flag.String("answers", "", "comma-separated index=text pairs for answer_clarification, e.g. 0=Ross 308,2=male")
	species := flag.String("species", "", "perf_lookup species filter")
	line := flag.String("line", "", "perf_lookup line filter")
	sex := flag.String("sex", "", "perf_lookup sex filter")
	ageDays := flag.Int("age-days", -1, "perf_lookup exact age filter in days, -1 for unset")
	metrics := flag.String("metrics", "", "comma-separated perf_lookup metric filter")
	flag.Parse()

	observability.InitLogger(cfg.LogPath, cfg.LogLevel)

	ctx := context.Background()
	eng, err := engine.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build engine")
	}
	defer eng.Close()

	if err := run(ctx, eng, runArgs{
		op:             *op,
		question:       *question,
		language:       *language,
		conversationID: *conversationID,
		answers:        *answersFlag,
		species:        *species,
		line:           *line,
		sex:            *sex,
		ageDays:        *ageDays,
		metrics:        *metrics,
	}); err != nil {
		log.Fatal().Err(err).Msg("queryctl")
	}
}

type runArgs struct {
	op             string
	question       string
	language       string
	conversationID string
	answers        string
	species        string
	line           string
	sex            string
	ageDays        int
	metrics        string
}

func run(ctx context.Context, eng *engine.Engine, args runArgs) error {
	switch args.op {
	case "ask":
		if args.question == "" {
			return fmt.Errorf("usage: queryctl -op ask -q \"...\"")
		}
		result, err := eng.Ask(ctx, args.question, args.language, args.conversationID, "")
		return printAskResult(result, err)

	case "answer_clarification":
		if args.conversationID == "" {
			return fmt.Errorf("usage: queryctl -op answer_clarification -conversation ID -answers 0=...,1=...")
		}
		answers, err := parseAnswers(args.answers)
		if err != nil {
			return err
		}
		result, err := eng.AnswerClarification(ctx, args.conversationID, answers)
		return printAskResult(result, err)

	case "expand_knowledge":
		if args.question == "" {
			return fmt.Errorf("usage: queryctl -op expand_knowledge -q \"...\"")
		}
		result := eng.ExpandKnowledge(ctx, args.question, args.language)
		return printJSON(result)

	case "perf_lookup":
		q := domain.PerfQuery{Species: args.species, Line: args.line, Sex: domain.Sex(args.sex)}
		if args.ageDays >= 0 {
			q.AgeDays = &args.ageDays
		}
		if args.metrics != "" {
			q.Metrics = strings.Split(args.metrics, ",")
		}
		result, err := eng.PerfLookup(ctx, q)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(engine.HTTPStatusFor(err) / 100)
			return nil
		}
		return printJSON(result)

	case "health":
		return printJSON(eng.Health(ctx))

	default:
		return fmt.Errorf("unknown -op %q", args.op)
	}
}

func printAskResult(result engine.AskResult, err error) error {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if result.Clarification != nil {
			if perr := printJSON(result.Clarification); perr != nil {
				return perr
			}
		}
		os.Exit(engine.HTTPStatusFor(err) / 100)
		return nil
	}
	return printJSON(result.Answer)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// parseAnswers turns "0=Ross 308,2=male" into {0: "Ross 308", 2: "male"}.
func parseAnswers(raw string) (map[int]string, error) {
	answers := map[int]string{}
	if raw == "" {
		return answers, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed -answers entry %q, want index=text", pair)
		}
		idx, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("malformed -answers index %q: %w", parts[0], err)
		}
		answers[idx] = strings.TrimSpace(parts[1])
	}
	return answers, nil
}
