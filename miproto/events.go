package miproto

import (
	"strings"

	"github.com/dbgmi/gomi/mi"
)

// EventName is a stable event identifier (spec §6) — not a UI string.
type EventName string

const (
	EventThreadGroupAdded   EventName = "thdgrpadd"
	EventThreadGroupRemoved EventName = "thdgrprem"
	EventThreadGroupStarted EventName = "thdgrpstart"
	EventThreadGroupExited  EventName = "thdgrpexit"
	EventThreadCreated      EventName = "thdcreate"
	EventThreadExited       EventName = "thdexit"
	EventThreadSelected     EventName = "thdselect"
	EventLibLoaded          EventName = "libload"
	EventLibUnloaded        EventName = "libunload"
	EventConsoleOutput      EventName = "conout"
	EventTargetOutput       EventName = "targetout"
	EventLogOutput          EventName = "dbgout"
	EventTargetRunning      EventName = "targetrun"
	EventTargetStopped      EventName = "targetstop"
	EventBreakpointHit      EventName = "brkpthit"
	EventStepFinished       EventName = "endstep"
	EventStepOutFinished    EventName = "endfunc"
	EventSignalReceived     EventName = "signal"
	EventExceptionReceived  EventName = "exception"
)

// StopReason classifies an async-exec "*stopped" record's "reason"
// field (spec §3, §4.5).
type StopReason int

const (
	StopUnrecognized StopReason = iota
	StopBreakpointHit
	StopWatchpointTrigger
	StopReadWatchpointTrigger
	StopAccessWatchpointTrigger
	StopFunctionFinished
	StopLocationReached
	StopWatchpointScope
	StopEndSteppingRange
	StopExitedSignalled
	StopExited
	StopExitedNormally
	StopSignalReceived
	StopSolibEvent
	StopFork
	StopVfork
	StopSyscallEntry
	StopExec
)

var stopReasonByName = map[string]StopReason{
	"breakpoint-hit":            StopBreakpointHit,
	"watchpoint-trigger":        StopWatchpointTrigger,
	"read-watchpoint-trigger":   StopReadWatchpointTrigger,
	"access-watchpoint-trigger": StopAccessWatchpointTrigger,
	"function-finished":         StopFunctionFinished,
	"location-reached":          StopLocationReached,
	"watchpoint-scope":          StopWatchpointScope,
	"end-stepping-range":        StopEndSteppingRange,
	"exited-signalled":          StopExitedSignalled,
	"exited":                    StopExited,
	"exited-normally":           StopExitedNormally,
	"signal-received":           StopSignalReceived,
	"solib-event":               StopSolibEvent,
	"fork":                      StopFork,
	"vfork":                     StopVfork,
	"syscall-entry":             StopSyscallEntry,
	"exec":                      StopExec,
}

// stopReasonFromName resolves an MI stop "reason" field; an unknown
// reason maps to StopUnrecognized, never an error (spec §4.5).
func stopReasonFromName(name string) StopReason {
	if r, ok := stopReasonByName[name]; ok {
		return r
	}
	return StopUnrecognized
}

// StoppedEnvelope is the shared envelope every "*stopped" record
// produces, independent of reason (spec §9's sum-type-by-reason
// redesign).
type StoppedEnvelope struct {
	Reason         StopReason
	ReasonName     string
	ThreadID       string
	StoppedThreads []string
	ProcessorCore  string
}

// TargetStopped is always emitted for a "*stopped" record, regardless
// of reason.
type TargetStopped struct {
	StoppedEnvelope
}

// BreakpointHit is additionally emitted when reason=breakpoint-hit.
type BreakpointHit struct {
	StoppedEnvelope
	BreakpointID string
	Frame        mi.Tuple
}

// StepFinished is additionally emitted when reason=end-stepping-range.
type StepFinished struct {
	StoppedEnvelope
	Frame mi.Tuple
}

// StepOutFinished is additionally emitted when reason=function-finished.
type StepOutFinished struct {
	StoppedEnvelope
	Frame       mi.Tuple
	ReturnValue string
}

// SignalReceived is additionally emitted when reason=signal-received.
type SignalReceived struct {
	StoppedEnvelope
	SignalName    string
	SignalMeaning string
}

// ExceptionReceived is additionally emitted for LLDB's exception stop
// reason variants not covered by the named GDB reasons above.
type ExceptionReceived struct {
	StoppedEnvelope
	Description string
}

// ThreadGroupEvent covers thread-group-added/removed/started/exited.
type ThreadGroupEvent struct {
	ID       string
	PID      string
	ExitCode string
}

// ThreadEvent covers thread-created/exited/selected.
type ThreadEvent struct {
	ID            string
	ThreadGroupID string
}

// LibraryEvent covers library-loaded/unloaded.
type LibraryEvent struct {
	ID          string
	TargetName  string
	HostName    string
	Symbols     string
	ThreadGroup string
}

// StreamEvent carries unescaped console/target/log output.
type StreamEvent struct {
	Text string
}

// Event pairs a stable name with its typed payload.
type Event struct {
	Name    EventName
	Payload interface{}
}

func splitStoppedThreads(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "all" {
		return nil
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' '
	})
	return fields
}

func envelopeFromStoppedData(data mi.Tuple) StoppedEnvelope {
	reasonName, _ := data.Str("reason")
	threadID, _ := data.Str("thread-id")
	core, _ := data.Str("core")
	stoppedThreads, _ := data.Str("stopped-threads")
	return StoppedEnvelope{
		Reason:         stopReasonFromName(reasonName),
		ReasonName:     reasonName,
		ThreadID:       threadID,
		StoppedThreads: splitStoppedThreads(stoppedThreads),
		ProcessorCore:  core,
	}
}

// eventsForStopped implements the two-layer mapping of spec §4.5:
// always TargetStopped, then — by reason — the specialized event.
func eventsForStopped(data mi.Tuple) []Event {
	env := envelopeFromStoppedData(data)
	events := []Event{{Name: EventTargetStopped, Payload: TargetStopped{StoppedEnvelope: env}}}

	frame, _ := data.Tuple("frame")

	switch env.Reason {
	case StopBreakpointHit:
		bkptno, _ := data.Str("bkptno")
		events = append(events, Event{Name: EventBreakpointHit, Payload: BreakpointHit{
			StoppedEnvelope: env,
			BreakpointID:    bkptno,
			Frame:           frame,
		}})
	case StopEndSteppingRange:
		events = append(events, Event{Name: EventStepFinished, Payload: StepFinished{
			StoppedEnvelope: env,
			Frame:           frame,
		}})
	case StopFunctionFinished:
		ret, _ := data.Str("gdb-result-var")
		events = append(events, Event{Name: EventStepOutFinished, Payload: StepOutFinished{
			StoppedEnvelope: env,
			Frame:           frame,
			ReturnValue:     ret,
		}})
	case StopSignalReceived:
		name, _ := data.Str("signal-name")
		meaning, _ := data.Str("signal-meaning")
		events = append(events, Event{Name: EventSignalReceived, Payload: SignalReceived{
			StoppedEnvelope: env,
			SignalName:      name,
			SignalMeaning:   meaning,
		}})
	case StopUnrecognized:
		if strings.HasPrefix(env.ReasonName, "exception") || env.ReasonName == "" && data["description"] != nil {
			desc, _ := data.Str("description")
			events = append(events, Event{Name: EventExceptionReceived, Payload: ExceptionReceived{
				StoppedEnvelope: env,
				Description:     desc,
			}})
		}
	}
	return events
}

func eventsForNotify(class string, data mi.Tuple) []Event {
	switch class {
	case "thread-group-added":
		return []Event{{Name: EventThreadGroupAdded, Payload: threadGroupEvent(data)}}
	case "thread-group-removed":
		return []Event{{Name: EventThreadGroupRemoved, Payload: threadGroupEvent(data)}}
	case "thread-group-started":
		return []Event{{Name: EventThreadGroupStarted, Payload: threadGroupEvent(data)}}
	case "thread-group-exited":
		return []Event{{Name: EventThreadGroupExited, Payload: threadGroupEvent(data)}}
	case "thread-created":
		return []Event{{Name: EventThreadCreated, Payload: threadEvent(data)}}
	case "thread-exited":
		return []Event{{Name: EventThreadExited, Payload: threadEvent(data)}}
	case "thread-selected":
		return []Event{{Name: EventThreadSelected, Payload: threadEvent(data)}}
	case "library-loaded":
		return []Event{{Name: EventLibLoaded, Payload: libraryEvent(data)}}
	case "library-unloaded":
		return []Event{{Name: EventLibUnloaded, Payload: libraryEvent(data)}}
	default:
		return nil
	}
}

func threadGroupEvent(data mi.Tuple) ThreadGroupEvent {
	id, _ := data.Str("id")
	pid, _ := data.Str("pid")
	exitCode, _ := data.Str("exit-code")
	return ThreadGroupEvent{ID: id, PID: pid, ExitCode: exitCode}
}

func threadEvent(data mi.Tuple) ThreadEvent {
	id, _ := data.Str("id")
	gid, _ := data.Str("group-id")
	return ThreadEvent{ID: id, ThreadGroupID: gid}
}

func libraryEvent(data mi.Tuple) LibraryEvent {
	id, _ := data.Str("id")
	target, _ := data.Str("target-name")
	host, _ := data.Str("host-name")
	symbols, _ := data.Str("symbols-loaded")
	tg, _ := data.Str("thread-group")
	return LibraryEvent{ID: id, TargetName: target, HostName: host, Symbols: symbols, ThreadGroup: tg}
}

func eventForExecAsync(class string, data mi.Tuple) []Event {
	switch class {
	case "stopped":
		return eventsForStopped(data)
	case "running":
		threadID, _ := data.Str("thread-id")
		return []Event{{Name: EventTargetRunning, Payload: ThreadEvent{ID: threadID}}}
	default:
		return nil
	}
}

// eventsForRecord classifies one inbound mi.Record into zero or more
// typed events. ResultRecord, PromptRecord, and tokenless vs. tokened
// routing are the Correlator's concern, not the Dispatcher's — this
// function only ever sees the async/stream records the session hands
// it after correlation has had first refusal.
func eventsForRecord(rec mi.Record) []Event {
	switch r := rec.(type) {
	case *mi.AsyncExecRecord:
		return eventForExecAsync(r.Class, r.Data)
	case *mi.AsyncNotifyRecord:
		return eventsForNotify(r.Class, r.Data)
	case *mi.AsyncStatusRecord:
		return nil
	case mi.ConsoleStreamRecord:
		return []Event{{Name: EventConsoleOutput, Payload: StreamEvent{Text: string(r)}}}
	case mi.TargetStreamRecord:
		return []Event{{Name: EventTargetOutput, Payload: StreamEvent{Text: string(r)}}}
	case mi.LogStreamRecord:
		return []Event{{Name: EventLogOutput, Payload: StreamEvent{Text: string(r)}}}
	default:
		return nil
	}
}

