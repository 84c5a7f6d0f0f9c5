package main

import (
	"context"

	"github.com/AndrewLester/ntpclient/internal/sugar"
	"github.com/AndrewLester/ntpclient/internal/ui"
	"github.com/AndrewLester/ntpclient/pkg/query"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

func handleQueryCommand(options query.Options, samples int) (*query.Exchange, error) {
	m := queryCommandModel{
		options:  options,
		samples:  samples,
		progress: progress.New(progress.WithScaledGradient("#68b1b1", "#6ea4ff")),
		sampled:  make(chan struct{}, query.MaxSamples),
	}

	final, err := sugar.RunProgramWithErrors(m)
	if err != nil {
		return nil, err
	}
	return final.exchange, nil
}

const (
	padding  = 10
	maxWidth = 80
)

type queryCommandModel struct {
	progress progress.Model
	options  query.Options
	samples  int
	sampled  chan struct{}
	done     int
	exchange *query.Exchange
	err      error
}

type ntpQueryMessage struct{ exchange *query.Exchange }
type ntpQueryError struct{ err error }
type progressUpdateMessage struct{}

func ntpQueryCommand(m queryCommandModel) tea.Cmd {
	return func() tea.Msg {
		exchange, err := query.Burst(context.Background(), m.options, m.samples, func(int, *query.Exchange, error) {
			m.sampled <- struct{}{}
		})
		if err != nil {
			return ntpQueryError{err}
		}
		return ntpQueryMessage{exchange}
	}
}

func sampleListenCommand(m queryCommandModel) tea.Cmd {
	return func() tea.Msg {
		<-m.sampled
		return progressUpdateMessage{}
	}
}

func (m queryCommandModel) Init() tea.Cmd {
	return tea.Batch(ntpQueryCommand(m), sampleListenCommand(m))
}

func (m queryCommandModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.err = context.Canceled
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - padding*2 - 4
		if m.progress.Width > maxWidth {
			m.progress.Width = maxWidth
		}
		return m, nil
	case progressUpdateMessage:
		m.done++
		return m, sampleListenCommand(m)
	case ntpQueryMessage:
		m.exchange = msg.exchange
		return m, tea.Quit
	case ntpQueryError:
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m queryCommandModel) View() (s string) {
	if m.err != nil || m.exchange != nil {
		return
	}

	s += ui.TitleStyle("NTP Client - Query "+m.options.Server) + "\n\n"
	s += m.progress.ViewAs(float64(m.done)/float64(m.samples)) + "\n\n"
	s += ui.HelpStyle("q: exit\n")
	return
}

func (m queryCommandModel) GetError() error {
	return m.err
}
