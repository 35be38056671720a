package main

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"fwupload/internal/app"
	"fwupload/internal/config"
	"fwupload/internal/domain"
	appErrors "fwupload/internal/errors"
	"fwupload/internal/tui"
)

// runInteractive drives the upload from a goroutine while the TUI renders its progress.
func runInteractive(ctx context.Context, uploader *app.Uploader, resolved domain.Configuration, cfg config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(tui.NewModel(tui.Config{
		Input:   cfg.Input,
		Target:  resolved.Target.Link(),
		Verbose: cfg.Verbose,
	}))

	uploader.OnCollected = func(files domain.FilteredFileSet) {
		program.Send(tui.CollectedMsg{Files: files})
	}
	uploader.Builder.OnEntry = func(current, total int, entry domain.ArchiveEntry) {
		program.Send(tui.EntryMsg{Current: current, Total: total, Name: entry.Name})
	}

	done := make(chan error, 1)
	go func() {
		report, err := uploader.Run(ctx, resolved)
		if err != nil {
			program.Send(tui.ErrorMsg{Err: errors.New(appErrors.UserMessage(err))})
		} else {
			program.Send(tui.DoneMsg{Report: report})
		}
		done <- err
	}()

	_, uiErr := program.Run()
	cancel()
	runErr := <-done

	if uiErr != nil {
		return uiErr
	}
	if runErr != nil {
		return userError{runErr}
	}
	return nil
}
