package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Victor-armando18/azure-connector/internal/config"
	"github.com/Victor-armando18/azure-connector/pkg/forwarder"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ./config.yaml)")
	recordPath := flag.String("record", "", "purchase record JSON file")
	send := flag.Bool("send", false, "forward the record to the logic app after the preview")
	debugMessage := flag.String("debug-message", "", "JSON value to relay instead of a purchase record")
	debug := flag.Bool("debug", false, "use the debug path for -debug-message")
	flag.Parse()

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("   AZURE CONNECTOR - RELAY DIAGNOSTIC TOOL")
	fmt.Println(strings.Repeat("=", 60))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(err)
	}
	logger := cfg.NewLogger()
	if !*send && *debugMessage == "" {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	client, err := forwarder.New(forwarder.Config{
		BaseURL:       cfg.LogicApp.BaseURL,
		DebugPath:     cfg.LogicApp.DebugPath,
		PathSuffix:    cfg.LogicApp.PathSuffix,
		Timeout:       cfg.LogicApp.Timeout,
		Headers:       cfg.LogicApp.Headers,
		RulesPath:     cfg.Validation.RulesPath,
		KnownLicenses: cfg.Validation.KnownLicenses,
		Strict:        cfg.Validation.Strict,
		Logger:        logger,
	})
	if err != nil {
		fail(err)
	}
	ctx := context.Background()

	if *debugMessage != "" {
		var message any
		if err := json.Unmarshal([]byte(*debugMessage), &message); err != nil {
			fail(fmt.Errorf("-debug-message is not valid JSON: %w", err))
		}
		out, err := client.SendDebugMessage(ctx, message, *debug)
		if err != nil {
			fail(err)
		}
		fmt.Printf("\n[RESPOSTA DA LOGIC APP]\n   %s\n", string(out))
		return
	}

	if *recordPath == "" {
		fail(fmt.Errorf("-record or -debug-message is required"))
	}
	data, err := os.ReadFile(*recordPath)
	if err != nil {
		fail(fmt.Errorf("ficheiro de compra não encontrado [%s]: %w", *recordPath, err))
	}
	var record forwarder.PurchaseRecord
	if err := json.Unmarshal(data, &record); err != nil {
		fail(fmt.Errorf("erro ao parsear JSON da compra: %w", err))
	}

	res, err := client.Preview(ctx, record)
	if err != nil {
		fail(err)
	}
	displaySummary(res)

	if *send {
		client.DoAction(ctx, forwarder.EventSendUserRequest, record)
		fmt.Println("\n   Enviado (fire-and-forget, ver log).")
	}
	fmt.Println(strings.Repeat("=", 60))
}

func displaySummary(res *forwarder.PreviewResult) {
	fmt.Println("\n[1. PAYLOAD]")
	payloadJSON, _ := json.MarshalIndent(res.Payload, "   ", "  ")
	fmt.Println("   " + string(payloadJSON))

	fmt.Println("\n[2. GUARDS]")
	if len(res.Violations) == 0 {
		fmt.Println("   Nenhuma violação detectada.")
	}
	for _, v := range res.Violations {
		mark := ""
		if v.Failed {
			mark = " (regra falhou)"
		}
		fmt.Printf("   [%-24s] %-14s -> %s%s\n", v.RuleID, v.Field, v.Context, mark)
	}
}

func fail(err error) {
	fmt.Printf("\nERRO: %v\n", err)
	os.Exit(1)
}
