package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	nativebridge "github.com/kurobaex/native-bridge"
	"github.com/kurobaex/native-bridge/classpath"
)

var cmdInteractive = &cli.Command{
	Name:  "interactive",
	Usage: "type comments and see how the bridge parses them",
	Flags: append([]cli.Flag{
		&cli.StringFlag{Name: "site", Value: "4chan", Usage: "site name of the scratch thread"},
		&cli.StringFlag{Name: "board", Value: "g", Usage: "board code of the scratch thread"},
		&cli.Int64Flag{Name: "thread", Value: 1, Usage: "thread id of the scratch thread"},
	}, engineFlags...),
	Action: func(cctx *cli.Context) error {
		ctx := cctx.Context
		cfg, err := loadConfig(cctx)
		if err != nil {
			return err
		}
		lib, err := nativebridge.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer lib.Close(ctx)

		thread := classpath.Request{
			SiteName:  cctx.String("site"),
			BoardCode: cctx.String("board"),
			ThreadID:  cctx.Int64("thread"),
		}
		return runInteractive(ctx, lib, thread)
	},
}

type interactiveModel struct {
	err     error
	ctx     context.Context
	lib     *nativebridge.Library
	session *session
	thread  classpath.Request
	history []string
	input   textinput.Model
	width   int
	state   modelState
}

type modelState int

const (
	stateLoading modelState = iota
	stateInput
	statePending
	stateShowResult
)

func newInteractiveModel(ctx context.Context, lib *nativebridge.Library, thread classpath.Request) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = ">>1 [spoiler]text[/spoiler]"
	ti.Prompt = "comment: "
	ti.Width = 60
	ti.Focus()
	return &interactiveModel{
		ctx:    ctx,
		lib:    lib,
		thread: thread,
		input:  ti,
		width:  80,
		state:  stateLoading,
	}
}

type loadedMsg struct {
	err     error
	session *session
}

type callResultMsg struct {
	err         error
	result      string
	threadPosts []int64
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(m.loadSession, textinput.Blink)
}

func (m *interactiveModel) loadSession() tea.Msg {
	s, err := newSession(m.lib)
	return loadedMsg{session: s, err: err}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.state == stateShowResult {
				m.state = stateInput
				m.history = nil
				m.thread.ThreadPosts = nil
				return m, nil
			}
			return m, tea.Quit
		case "enter":
			switch m.state {
			case stateInput:
				comment := m.input.Value()
				m.input.Reset()
				m.state = statePending
				return m, m.parse(comment)
			case statePending:
				return m, nil
			case stateShowResult:
				m.state = stateInput
				m.err = nil
				return m, nil
			}
		}
	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session
		m.state = stateInput
	case callResultMsg:
		m.err = msg.err
		if msg.err == nil {
			m.history = append(m.history, msg.result)
			m.thread.ThreadPosts = msg.threadPosts
		}
		m.state = stateShowResult
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// parse posts comment as the next post of the scratch thread, so quotes
// of earlier posts resolve.
func (m *interactiveModel) parse(comment string) tea.Cmd {
	postID := int64(len(m.thread.ThreadPosts) + 1)
	req := m.thread
	req.ThreadPosts = append(append([]int64(nil), m.thread.ThreadPosts...), postID)
	req.Posts = []classpath.PostRequest{{PostID: postID, Comment: &comment}}
	s, width := m.session, m.width

	return func() tea.Msg {
		res, err := s.call(m.ctx, &req)
		if err != nil {
			return callResultMsg{err: err}
		}
		r := &renderer{color: true, width: width}
		out := callResultMsg{threadPosts: req.ThreadPosts}
		if len(res.Posts) == 0 || res.Posts[0] == nil {
			out.result = fmt.Sprintf("#%d %s\n\n", postID, helpStyle.Render("(no comment)"))
			return out
		}
		out.result = r.post(int(postID), res.Posts[0])
		return out
	}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state == stateLoading {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress esc to quit.", m.err))
	}

	if m.state == stateLoading {
		return "Verifying classes..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Post Parser"))
	b.WriteString(" ")
	b.WriteString(descStyle.Render(fmt.Sprintf("%s/%s/%d", m.thread.SiteName, m.thread.BoardCode, m.thread.ThreadID)))
	b.WriteString("\n\n")

	for _, h := range m.history {
		b.WriteString(h)
	}

	switch m.state {
	case stateInput:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter parse • esc quit"))

	case statePending:
		b.WriteString(helpStyle.Render("parsing..."))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n\n")
		}
		b.WriteString(helpStyle.Render("enter next post • esc clear thread"))
	}

	return b.String()
}

func runInteractive(ctx context.Context, lib *nativebridge.Library, thread classpath.Request) error {
	p := tea.NewProgram(newInteractiveModel(ctx, lib, thread), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
