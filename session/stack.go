package session

import (
	"context"

	"github.com/dbgmi/gomi/mi"
	"github.com/dbgmi/gomi/miproto"
)

// StackFrame mirrors the teacher's StackFrame (stack.go), field for
// field — "-stack-info-frame" and the "frame=" entries of
// "-stack-list-frames" both produce this shape.
type StackFrame struct {
	Level    int
	Function string
	Address  string
	File     string
	Line     int
	From     string
	Fullname string
}

// FrameArgument mirrors the teacher's FrameArgument.
type FrameArgument struct {
	Name  string
	Type  string
	Value string
}

// FrameArguments is one frame's argument list, keyed by level — the
// teacher's StackFrameArguments. It carries no variables;
// "-stack-list-variables" results come back from GetStackFrameVariables
// as a flat []FrameArgument instead.
type FrameArguments struct {
	Level     int
	Arguments []FrameArgument
}

func mapStackFrame(t mi.Tuple) *StackFrame {
	return &StackFrame{
		Level:    optInt(t, "level"),
		Function: optStr(t, "func"),
		Address:  optStr(t, "addr"),
		File:     optStr(t, "file"),
		Line:     optInt(t, "line"),
		From:     optStr(t, "from"),
		Fullname: optStr(t, "fullname"),
	}
}

func mapFrameArguments(t mi.Tuple) FrameArguments {
	fa := FrameArguments{Level: optInt(t, "level")}
	args, _ := t.List("args")
	for _, v := range args.Positional {
		if argTuple, ok := v.(mi.Tuple); ok {
			fa.Arguments = append(fa.Arguments, FrameArgument{
				Name:  optStr(argTuple, "name"),
				Type:  optStr(argTuple, "type"),
				Value: optStr(argTuple, "value"),
			})
		}
	}
	return fa
}

// GetStackFrame fetches the current frame's description
// ("-stack-info-frame"), spec §4.7 getStackFrame.
func (s *Session) GetStackFrame(ctx context.Context) (*StackFrame, error) {
	data, err := s.execute(ctx, newCommand("stack-info-frame"))
	if err != nil {
		return nil, err
	}
	frame, ok := data.Tuple("frame")
	if !ok {
		return nil, &miproto.ProtocolShapeError{Operation: "getStackFrame", Field: "frame"}
	}
	return mapStackFrame(frame), nil
}

// GetStackDepth reports the number of frames on the stack
// ("-stack-info-depth"). maxDepth, if non-nil, bounds how deep the
// debugger needs to count.
func (s *Session) GetStackDepth(ctx context.Context, maxDepth *int) (int, error) {
	cmd := newCommand("stack-info-depth")
	if maxDepth != nil {
		cmd.ParamRaw(itoa(*maxDepth))
	}
	data, err := s.execute(ctx, cmd)
	if err != nil {
		return 0, err
	}
	return optInt(data, "depth"), nil
}

// GetStackFrames lists every frame between lowFrame and highFrame
// inclusive ("-stack-list-frames"); either bound may be nil for "no
// limit on this side" (spec supplement: the teacher only exposed
// stack-list-arguments/locals/variables, not the frame listing
// itself).
func (s *Session) GetStackFrames(ctx context.Context, lowFrame, highFrame *int) ([]StackFrame, error) {
	cmd := newCommand("stack-list-frames")
	if lowFrame != nil {
		cmd.ParamRaw(itoa(*lowFrame))
	}
	if highFrame != nil {
		cmd.ParamRaw(itoa(*highFrame))
	}
	data, err := s.execute(ctx, cmd)
	if err != nil {
		return nil, err
	}
	list, _ := data.List("stack")
	frames := make([]StackFrame, 0, len(list.AllTuples("frame")))
	for _, t := range list.AllTuples("frame") {
		frames = append(frames, *mapStackFrame(t))
	}
	return frames, nil
}

// GetStackFrameArgs lists the arguments of every frame in range
// ("-stack-list-arguments"), spec §4.7 getStackFrameArgs. Grounded on
// teacher stack.go's Stack_list_arguments.
func (s *Session) GetStackFrameArgs(ctx context.Context, detail miproto.DetailLevel, lowFrame, highFrame *int) ([]FrameArguments, error) {
	cmd := newCommand("stack-list-arguments").ParamRaw(itoa(int(detail)))
	if lowFrame != nil {
		cmd.ParamRaw(itoa(*lowFrame))
	}
	if highFrame != nil {
		cmd.ParamRaw(itoa(*highFrame))
	}
	data, err := s.execute(ctx, cmd)
	if err != nil {
		return nil, err
	}
	list, _ := data.List("stack-args")
	out := make([]FrameArguments, 0, len(list.AllTuples("frame")))
	for _, t := range list.AllTuples("frame") {
		out = append(out, mapFrameArguments(t))
	}
	return out, nil
}

// GetStackFrameVariables lists the locals and arguments visible in the
// current frame ("-stack-list-variables"), spec §4.7
// getStackFrameVariables.
func (s *Session) GetStackFrameVariables(ctx context.Context, detail miproto.DetailLevel) ([]FrameArgument, error) {
	data, err := s.execute(ctx, newCommand("stack-list-variables").ParamRaw(itoa(int(detail))))
	if err != nil {
		return nil, err
	}
	list, _ := data.List("variables")
	out := make([]FrameArgument, 0, len(list.Positional))
	for _, v := range list.Positional {
		t, ok := v.(mi.Tuple)
		if !ok {
			continue
		}
		out = append(out, FrameArgument{
			Name:  optStr(t, "name"),
			Type:  optStr(t, "type"),
			Value: optStr(t, "value"),
		})
	}
	return out, nil
}

// GetStackLocals lists only the current frame's local variables
// ("-stack-list-locals"), kept distinct from GetStackFrameVariables
// since GDB itself keeps the two commands distinct (locals excludes
// arguments; variables includes them).
func (s *Session) GetStackLocals(ctx context.Context, detail miproto.DetailLevel) ([]FrameArgument, error) {
	data, err := s.execute(ctx, newCommand("stack-list-locals").ParamRaw(itoa(int(detail))))
	if err != nil {
		return nil, err
	}
	list, _ := data.List("locals")
	out := make([]FrameArgument, 0, len(list.Positional))
	for _, v := range list.Positional {
		t, ok := v.(mi.Tuple)
		if !ok {
			continue
		}
		out = append(out, FrameArgument{
			Name:  optStr(t, "name"),
			Type:  optStr(t, "type"),
			Value: optStr(t, "value"),
		})
	}
	return out, nil
}

// SelectFrame changes the current frame ("-stack-select-frame").
func (s *Session) SelectFrame(ctx context.Context, frameLevel int) error {
	if err := requireNonNegative("selectFrame", "frameLevel", frameLevel); err != nil {
		return err
	}
	_, err := s.execute(ctx, newCommand("stack-select-frame").ParamRaw(itoa(frameLevel)))
	return err
}
