package session

import (
	"context"

	"github.com/dbgmi/gomi/mi"
	"github.com/dbgmi/gomi/miproto"
)

// Watch is a named handle on a debuggee expression (spec §GLOSSARY
// "Watch / variable object"), the client-side mirror of a GDB/LLDB
// variable object created by "-var-create". Grounded on the teacher's
// result-mapper style in breakpoint.go/stack.go; the var-object
// commands themselves have no teacher analogue, so the field set
// follows GDB's own "-var-create" reply shape (name, numchild,
// value, type, thread-id, has_more).
type Watch struct {
	Name        string
	NumChildren int
	Value       string
	Type        string
	ThreadID    string
	HasMore     bool
}

// WatchChild is one entry of "-var-list-children"'s children list.
type WatchChild struct {
	Name        string
	Expression  string
	NumChildren int
	Value       string
	Type        string
}

// WatchChange is one entry of "-var-update"'s changelist (spec
// GLOSSARY "Floating watch" governs whether re-evaluation follows the
// frame the watch was created in or the current one).
type WatchChange struct {
	Name           string
	InScope        bool
	TypeChanged    bool
	NewType        string
	NewNumChildren int
}

func mapWatch(data mi.Tuple) (*Watch, error) {
	name, err := miproto.RequireString(data, "addWatch", "name")
	if err != nil {
		return nil, err
	}
	return &Watch{
		Name:        name,
		NumChildren: optInt(data, "numchild"),
		Value:       optStr(data, "value"),
		Type:        optStr(data, "type"),
		ThreadID:    optStr(data, "thread-id"),
		HasMore:     optInt(data, "has_more") != 0,
	}, nil
}

// AddWatch creates a variable object on expression ("-var-create"),
// spec §4.7 addWatch. frame, if nil, binds the watch to "*" (a
// floating watch that re-evaluates at whatever frame is current when
// queried); a non-nil frame creates a fixed watch bound to that frame
// number in the current thread.
func (s *Session) AddWatch(ctx context.Context, name string, frame *int, expression string) (*Watch, error) {
	if err := requireNonEmpty("addWatch", "name", name); err != nil {
		return nil, err
	}
	if err := requireNonEmpty("addWatch", "expression", expression); err != nil {
		return nil, err
	}
	frameArg := "*"
	if frame != nil {
		frameArg = itoa(*frame)
	}
	cmd := newCommand("var-create").ParamRaw(name).ParamRaw(frameArg).Param(expression)
	data, err := s.execute(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return mapWatch(data)
}

// RemoveWatch deletes a variable object ("-var-delete"), spec §4.7
// removeWatch. When children is false only the named watch is
// deleted, leaving its children as independent watches (the "-c"
// GDB/LLDB convention).
func (s *Session) RemoveWatch(ctx context.Context, name string, children bool) error {
	if err := requireNonEmpty("removeWatch", "name", name); err != nil {
		return err
	}
	cmd := newCommand("var-delete").OptionWhen(!children, "c").ParamRaw(name)
	_, err := s.execute(ctx, cmd)
	return err
}

// UpdateWatch re-evaluates one or more variable objects
// ("-var-update"), spec §4.7 updateWatch, reporting which changed.
// name may be "*" to update every watch.
func (s *Session) UpdateWatch(ctx context.Context, name string, detail miproto.DetailLevel) ([]WatchChange, error) {
	if err := requireNonEmpty("updateWatch", "name", name); err != nil {
		return nil, err
	}
	cmd := newCommand("var-update").Detail(detail).ParamRaw(name)
	data, err := s.execute(ctx, cmd)
	if err != nil {
		return nil, err
	}
	list, _ := data.List("changelist")
	out := make([]WatchChange, 0, len(list.Positional))
	for _, v := range list.Positional {
		t, ok := v.(mi.Tuple)
		if !ok {
			continue
		}
		out = append(out, WatchChange{
			Name:           optStr(t, "name"),
			InScope:        optStr(t, "in_scope") == "true",
			TypeChanged:    optStr(t, "type_changed") == "true",
			NewType:        optStr(t, "new_type"),
			NewNumChildren: optInt(t, "new_num_children"),
		})
	}
	return out, nil
}

// GetWatchChildren lists a variable object's children
// ("-var-list-children"), spec §4.7 getWatchChildren.
func (s *Session) GetWatchChildren(ctx context.Context, name string, detail miproto.DetailLevel) ([]WatchChild, error) {
	if err := requireNonEmpty("getWatchChildren", "name", name); err != nil {
		return nil, err
	}
	data, err := s.execute(ctx, newCommand("var-list-children").Detail(detail).ParamRaw(name))
	if err != nil {
		return nil, err
	}
	list, _ := data.List("children")
	out := make([]WatchChild, 0, len(list.AllTuples("child")))
	for _, t := range list.AllTuples("child") {
		out = append(out, WatchChild{
			Name:        optStr(t, "name"),
			Expression:  optStr(t, "exp"),
			NumChildren: optInt(t, "numchild"),
			Value:       optStr(t, "value"),
			Type:        optStr(t, "type"),
		})
	}
	return out, nil
}

// GetWatchValue fetches a variable object's current value
// ("-var-evaluate-expression"), spec §4.7 getWatchValue.
func (s *Session) GetWatchValue(ctx context.Context, name string) (string, error) {
	if err := requireNonEmpty("getWatchValue", "name", name); err != nil {
		return "", err
	}
	data, err := s.execute(ctx, newCommand("var-evaluate-expression").ParamRaw(name))
	if err != nil {
		return "", err
	}
	return miproto.RequireString(data, "getWatchValue", "value")
}

// SetWatchValue assigns a new value to a variable object
// ("-var-assign"), spec §4.7 setWatchValue. Returns the value as the
// debugger echoes it back after assignment.
func (s *Session) SetWatchValue(ctx context.Context, name string, value string) (string, error) {
	if err := requireNonEmpty("setWatchValue", "name", name); err != nil {
		return "", err
	}
	data, err := s.execute(ctx, newCommand("var-assign").ParamRaw(name).Param(value))
	if err != nil {
		return "", err
	}
	return miproto.RequireString(data, "setWatchValue", "value")
}

// SetWatchValueFormat changes how a variable object's value renders
// ("-var-set-format"), spec §4.7 setWatchValueFormat.
func (s *Session) SetWatchValueFormat(ctx context.Context, name string, format miproto.WatchFormat) error {
	if err := requireNonEmpty("setWatchValueFormat", "name", name); err != nil {
		return err
	}
	_, err := s.execute(ctx, newCommand("var-set-format").ParamRaw(name).Format(format))
	return err
}

// WatchAttributes reports whether a variable object's value can be
// edited, per "-var-show-attributes".
type WatchAttributes struct {
	Editable bool
}

// GetWatchAttributes reports a variable object's attributes
// ("-var-show-attributes"), spec §4.7 getWatchAttributes.
func (s *Session) GetWatchAttributes(ctx context.Context, name string) (*WatchAttributes, error) {
	if err := requireNonEmpty("getWatchAttributes", "name", name); err != nil {
		return nil, err
	}
	data, err := s.execute(ctx, newCommand("var-show-attributes").ParamRaw(name))
	if err != nil {
		return nil, err
	}
	return &WatchAttributes{Editable: optStr(data, "status") == "editable"}, nil
}

// GetWatchExpression reports the expression a variable object
// evaluates, qualified for direct use outside any variable-object
// context ("-var-info-path-expression"), spec §4.7
// getWatchExpression.
func (s *Session) GetWatchExpression(ctx context.Context, name string) (string, error) {
	if err := requireNonEmpty("getWatchExpression", "name", name); err != nil {
		return "", err
	}
	data, err := s.execute(ctx, newCommand("var-info-path-expression").ParamRaw(name))
	if err != nil {
		return "", err
	}
	return miproto.RequireString(data, "getWatchExpression", "path_expr")
}
