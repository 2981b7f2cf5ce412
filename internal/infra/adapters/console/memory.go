package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

type EntryKind int

const (
	// EntryWrite is text written with Write or WriteLine.
	EntryWrite EntryKind = iota
	// EntryQuestion is a prompt that started waiting for input.
	EntryQuestion
	// EntryAnswer is the line that answered a prompt.
	EntryAnswer
)

func (k EntryKind) String() string {
	switch k {
	case EntryWrite:
		return "write"
	case EntryQuestion:
		return "question"
	case EntryAnswer:
		return "answer"
	}
	return fmt.Sprintf("EntryKind(%d)", int(k))
}

type Entry struct {
	Kind EntryKind
	Text string
}

// Memory is an in-process console. Answers are fed with Feed and every
// write, question and answer is kept in order in its transcript.
type Memory struct {
	interactive bool
	input       chan string
	closeOnce   sync.Once

	mu         sync.Mutex
	out        strings.Builder
	transcript []Entry
	waiting    int
	writeErr   error
}

// NewMemory returns a Memory console. Up to 1024 answers can be fed
// ahead of the prompts reading them.
func NewMemory(interactive bool) *Memory {
	return &Memory{
		interactive: interactive,
		input:       make(chan string, 1024),
	}
}

// Feed queues answers for upcoming prompts.
func (m *Memory) Feed(answers ...string) {
	for _, a := range answers {
		m.input <- a
	}
}

// CloseInput makes prompts fail with io.EOF once fed answers run out.
func (m *Memory) CloseInput() {
	m.closeOnce.Do(func() { close(m.input) })
}

// FailWrites makes every following write return err. A nil err
// restores normal operation.
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

func (m *Memory) Write(message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.out.WriteString(message)
	m.transcript = append(m.transcript, Entry{Kind: EntryWrite, Text: message})
	return nil
}

func (m *Memory) WriteLine(message string) error {
	return m.Write(message + "\n")
}

func (m *Memory) IsInteractive() bool {
	return m.interactive
}

func (m *Memory) Prompt(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	m.out.WriteString(question + " ")
	m.transcript = append(m.transcript, Entry{Kind: EntryQuestion, Text: question})
	m.waiting++
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.waiting--
		m.mu.Unlock()
	}()

	select {
	case line, ok := <-m.input:
		if !ok {
			return "", fmt.Errorf("unable to read answer: %w", io.EOF)
		}
		m.mu.Lock()
		m.out.WriteString(line + "\n")
		m.transcript = append(m.transcript, Entry{Kind: EntryAnswer, Text: line})
		m.mu.Unlock()
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Output returns everything written, including questions and answers.
func (m *Memory) Output() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.out.String()
}

func (m *Memory) Transcript() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.transcript...)
}

// Waiting returns the number of prompts currently waiting for input.
func (m *Memory) Waiting() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.waiting
}

// Questions returns the number of prompts asked so far.
func (m *Memory) Questions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.transcript {
		if e.Kind == EntryQuestion {
			n++
		}
	}
	return n
}
