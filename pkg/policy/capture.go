package policy

import (
	"strings"
	"time"

	"github.com/nmstate/nmstate-go/pkg/metrics"
	"github.com/nmstate/nmstate-go/pkg/model"
	"github.com/nmstate/nmstate-go/pkg/nmerror"
)

// action is the operator a capture command applies between its key
// and value sides.
type action int

const (
	actionNone action = iota
	actionEqual
	actionReplace
)

// CaptureRules is an ordered set of named capture commands. Order matters: a command may reference an earlier one's
// result via `capture.<name>`.
type CaptureRules struct {
	names    []string
	commands map[string]*CaptureCommand
}

// ParseCaptureRules parses a name -> expression map into an ordered
// CaptureRules, preserving names in the order given.
func ParseCaptureRules(names []string, exprs map[string]string) (*CaptureRules, error) {
	rules := &CaptureRules{commands: map[string]*CaptureCommand{}}
	for _, name := range names {
		expr, ok := exprs[name]
		if !ok {
			continue
		}
		cmd, err := ParseCaptureCommand(expr)
		if err != nil {
			return nil, err
		}
		rules.names = append(rules.names, name)
		rules.commands[name] = cmd
	}
	return rules, nil
}

// IsEmpty reports whether no capture commands were defined.
func (r *CaptureRules) IsEmpty() bool { return r == nil || len(r.names) == 0 }

// Execute runs every capture command in order against current,
// accumulating each result under its name so later commands can pipe
// from it.
func (r *CaptureRules) Execute(current *model.NetworkState) (map[string]*model.NetworkState, error) {
	start := time.Now()
	results := map[string]*model.NetworkState{}
	for _, name := range r.names {
		cmd := r.commands[name]
		matched, err := cmd.Execute(current, results)
		if err != nil {
			metrics.RecordPolicyEval(err, time.Since(start))
			return nil, err
		}
		results[name] = matched
	}
	metrics.RecordPolicyEval(nil, time.Since(start))
	return results, nil
}

// CaptureCommand is one parsed `key (== | := | |) value` capture
// expression.
type CaptureCommand struct {
	line string

	key         captureToken
	keyCapture  string
	keyCapturePos int

	action action

	value         captureToken
	valueCapture  string
	valueCapturePos int
}

// ParseCaptureCommand tokenises and parses one capture expression.
func ParseCaptureCommand(line string) (*CaptureCommand, error) {
	line = strings.TrimSpace(strings.ReplaceAll(line, " ", " "))
	cmd := &CaptureCommand{line: line}

	tokens, err := parseCaptureTokens(line)
	if err != nil {
		return nil, err
	}

	if pipePos := indexOfKind(tokens, captureTokenPipe); pipePos >= 0 {
		capName, err := getInputCaptureSource(tokens[:pipePos], line, tokens[pipePos])
		if err != nil {
			return nil, err
		}
		cmd.keyCapture = capName
		if pipePos+1 < len(tokens) {
			if err := processTokensWithoutPipe(cmd, tokens[pipePos+1:], line); err != nil {
				return nil, err
			}
		}
		return cmd, nil
	}

	if err := processTokensWithoutPipe(cmd, tokens, line); err != nil {
		return nil, err
	}
	return cmd, nil
}

func getInputCaptureSource(tokens []captureToken, line string, pipeToken captureToken) (string, error) {
	if len(tokens) == 0 {
		return "", nmerror.Policy(1, pipeToken.pos, "the pipe action must be in the form 'capture.<name>'")
	}
	t := tokens[0]
	if t.kind != captureTokenPath || len(t.path) != 2 || t.path[0] != "capture" {
		return "", nmerror.Policy(1, t.pos, "the pipe action must be in the form 'capture.<name>'")
	}
	return t.path[1], nil
}

func processTokensWithoutPipe(cmd *CaptureCommand, tokens []captureToken, line string) error {
	if pos := indexOfKind(tokens, captureTokenEqual); pos >= 0 {
		if pos+1 >= len(tokens) {
			return nmerror.Policy(1, tokens[pos].pos, "the equal action has no value defined after it")
		}
		cmd.action = actionEqual
		return bindKeyValue(cmd, tokens[:pos], tokens[pos+1:], tokens[pos], line)
	}
	if pos := indexOfKind(tokens, captureTokenReplace); pos >= 0 {
		if pos+1 > len(tokens) {
			return nmerror.Policy(1, tokens[pos].pos, "the replace action has no value defined after it")
		}
		cmd.action = actionReplace
		return bindKeyValue(cmd, tokens[:pos], tokens[pos+1:], tokens[pos], line)
	}
	if len(tokens) > 0 && tokens[0].kind == captureTokenPath {
		cmd.action = actionNone
		cmd.key = tokens[0]
	} else if len(tokens) == 1 && tokens[0].kind == captureTokenValue {
		// A bare dotless word such as "interfaces" names a top-level section.
		cmd.action = actionNone
		cmd.key = captureToken{kind: captureTokenPath, path: []string{tokens[0].value}, pos: tokens[0].pos}
	}
	return nil
}

func bindKeyValue(cmd *CaptureCommand, keyTokens, valueTokens []captureToken, actionToken captureToken, line string) error {
	key, keyCapName, keyCapPos, err := conditionKey(keyTokens, line, actionToken)
	if err != nil {
		return err
	}
	if cmd.keyCapture == "" && keyCapName != "" {
		cmd.keyCapture = keyCapName
		cmd.keyCapturePos = keyCapPos
	}
	cmd.key = key

	value, valueCapName, valueCapPos, err := conditionValue(valueTokens, line, actionToken)
	if err != nil {
		return err
	}
	cmd.value = value
	if valueCapName != "" {
		cmd.valueCapture = valueCapName
		cmd.valueCapturePos = valueCapPos
	}
	return nil
}

func conditionKey(tokens []captureToken, line string, actionToken captureToken) (captureToken, string, int, error) {
	if len(tokens) != 1 {
		return captureToken{}, "", 0, nmerror.Policy(1, actionToken.pos,
			"the equal or replace action must always start with a property path")
	}
	t := tokens[0]
	if t.kind != captureTokenPath {
		return captureToken{}, "", 0, nmerror.Policy(1, t.pos,
			"the equal or replace action must always start with a property path")
	}
	if len(t.path) > 0 && t.path[0] == "capture" {
		if len(t.path) <= 2 {
			return captureToken{}, "", 0, nmerror.Policy(1, t.pos, "no property path after the capture name")
		}
		return captureToken{kind: captureTokenPath, path: t.path[2:], pos: t.pos}, t.path[1], t.pos, nil
	}
	return t, "", 0, nil
}

func conditionValue(tokens []captureToken, line string, actionToken captureToken) (captureToken, string, int, error) {
	if len(tokens) != 1 {
		pos := actionToken.pos
		if len(tokens) >= 1 {
			pos = tokens[0].pos
		}
		return captureToken{}, "", 0, nmerror.Policy(1, pos,
			"the equal or replace action must end with a single value or property path")
	}
	t := tokens[0]
	switch t.kind {
	case captureTokenPath:
		if len(t.path) > 0 && t.path[0] == "capture" {
			if len(t.path) < 3 {
				return captureToken{}, "", 0, nmerror.Policy(1, t.pos,
					"matching against captured data must be 'interfaces.name == capture.<name>.interfaces.0.name'")
			}
			return captureToken{kind: captureTokenPath, path: t.path[2:], pos: t.pos}, t.path[1], t.pos, nil
		}
		return t, "", 0, nil
	case captureTokenValue, captureTokenNull:
		return t, "", 0, nil
	default:
		return captureToken{}, "", 0, nmerror.Policy(1, t.pos,
			"the equal or replace action must end with a single value or property path")
	}
}

// Execute evaluates the command against current (or, if key/value
// capture are set, against the named prior capture results),
// returning the filtered/rewritten NetworkState.
func (c *CaptureCommand) Execute(current *model.NetworkState, captures map[string]*model.NetworkState) (*model.NetworkState, error) {
	input := current
	if c.keyCapture != "" {
		cap, ok := captures[c.keyCapture]
		if !ok {
			return nil, nmerror.Policy(1, c.keyCapturePos, "capture %q not found", c.keyCapture)
		}
		input = cap
	}

	if c.action == actionNone {
		if c.key.kind != captureTokenPath {
			return &model.NetworkState{}, nil
		}
		if len(c.key.path) == 0 {
			return &model.NetworkState{}, nil
		}
		return retainState(input, c.key.path)
	}

	valueInput := current
	if c.valueCapture != "" {
		cap, ok := captures[c.valueCapture]
		if !ok {
			return nil, nmerror.Policy(1, c.valueCapturePos, "capture %q not found", c.valueCapture)
		}
		valueInput = cap
	}

	matchValue, isNull, err := c.resolveValue(valueInput)
	if err != nil {
		return nil, err
	}
	var matchStr string
	if !isNull {
		matchStr = matchValue
	}

	if c.key.kind != captureTokenPath {
		return nil, nmerror.Bug("capture command key is not a property path")
	}
	keys := c.key.path
	if len(keys) == 0 {
		return nil, nmerror.InvalidArgument("policy", "invalid empty capture keyword")
	}

	ret := &model.NetworkState{}
	switch keys[0] {
	case "routes":
		routes, err := c.applyRoutes(keys[1:], matchStr, isNull, input)
		if err != nil {
			return nil, err
		}
		ret.Routes = routes
	case "route-rules":
		rules, err := c.applyRouteRules(keys[1:], matchStr, isNull, input)
		if err != nil {
			return nil, err
		}
		ret.RouteRules = rules
	case "interfaces":
		ifaces, err := c.applyInterfaces(keys[1:], matchStr, isNull, input)
		if err != nil {
			return nil, err
		}
		ret.Interfaces = ifaces
	default:
		return nil, nmerror.InvalidArgument("policy", "unsupported capture keyword %q", keys[0])
	}
	return ret, nil
}

// resolveValue evaluates the command's value token against state,
// returning its string rendering and whether it was the literal null.
func (c *CaptureCommand) resolveValue(state *model.NetworkState) (string, bool, error) {
	switch c.value.kind {
	case captureTokenPath:
		doc, err := stateToDocument(state)
		if err != nil {
			return "", false, err
		}
		v, err := getValueFromDocument(c.value.path, doc, c.line, c.value.pos)
		if err != nil {
			return "", false, err
		}
		if v == nil {
			return "", true, nil
		}
		return valueToString(v), false, nil
	case captureTokenValue:
		return c.value.value, false, nil
	case captureTokenNull:
		return "", true, nil
	default:
		return "", false, nmerror.Bug("unexpected capture value token")
	}
}

func (c *CaptureCommand) applyRoutes(keys []string, matchValue string, isNull bool, state *model.NetworkState) (*model.Routes, error) {
	// A leading "running"/"config" segment selects that route list and
	// is not part of the per-route property path.
	section := ""
	if len(keys) > 0 && (keys[0] == "running" || keys[0] == "config") {
		section, keys = keys[0], keys[1:]
	}
	var all []model.RouteEntry
	if state != nil && state.Routes != nil {
		if section != "config" {
			all = append(all, state.Routes.Running...)
		}
		if section != "running" {
			all = append(all, state.Routes.Config...)
		}
	}
	switch c.action {
	case actionEqual:
		matched, err := searchItems("route", keys, matchValue, all, c.line, c.key.pos)
		if err != nil {
			return nil, err
		}
		return &model.Routes{Running: matched}, nil
	case actionReplace:
		var value *string
		if !isNull {
			value = &matchValue
		}
		updated, err := updateItems(keys, value, all)
		if err != nil {
			return nil, err
		}
		return &model.Routes{Running: updated}, nil
	default:
		return nil, nmerror.Bug("unreachable capture action")
	}
}

func (c *CaptureCommand) applyRouteRules(keys []string, matchValue string, isNull bool, state *model.NetworkState) (*model.RouteRules, error) {
	var all []model.RouteRuleEntry
	if state != nil && state.RouteRules != nil {
		all = append(all, state.RouteRules.Config...)
	}
	switch c.action {
	case actionEqual:
		matched, err := searchItems("route-rule", keys, matchValue, all, c.line, c.key.pos)
		if err != nil {
			return nil, err
		}
		return &model.RouteRules{Config: matched}, nil
	case actionReplace:
		var value *string
		if !isNull {
			value = &matchValue
		}
		updated, err := updateItems(keys, value, all)
		if err != nil {
			return nil, err
		}
		return &model.RouteRules{Config: updated}, nil
	default:
		return nil, nmerror.Bug("unreachable capture action")
	}
}

func (c *CaptureCommand) applyInterfaces(keys []string, matchValue string, isNull bool, state *model.NetworkState) (model.Interfaces, error) {
	var bases []model.BaseInterface
	if state != nil {
		for i := range state.Interfaces {
			if b := state.Interfaces[i].Base(); b != nil {
				bases = append(bases, *b)
			}
		}
	}
	switch c.action {
	case actionEqual:
		matched, err := searchItems("interface", keys, matchValue, bases, c.line, c.key.pos)
		if err != nil {
			return nil, err
		}
		return basesToEthernetInterfaces(matched), nil
	case actionReplace:
		var value *string
		if !isNull {
			value = &matchValue
		}
		updated, err := updateItems(keys, value, bases)
		if err != nil {
			return nil, err
		}
		return basesToEthernetInterfaces(updated), nil
	default:
		return nil, nmerror.Bug("unreachable capture action")
	}
}

// basesToEthernetInterfaces wraps filtered/rewritten BaseInterface
// values back into generic Interface entries. Capture results are
// data snapshots handed to the template layer or to a later capture;
// they are never fed back into the apply pipeline, so a per-variant
// wrapper (ethernet) is sufficient to carry the base fields.
func basesToEthernetInterfaces(bases []model.BaseInterface) model.Interfaces {
	out := make(model.Interfaces, 0, len(bases))
	for i := range bases {
		out = append(out, model.Interface{Ethernet: &model.EthernetInterface{Base: bases[i]}})
	}
	return out
}

// retainState keeps only the top-level document section propPath
// names.
func retainState(state *model.NetworkState, propPath []string) (*model.NetworkState, error) {
	doc, err := stateToDocument(state)
	if err != nil {
		return nil, err
	}
	retainOnly(doc, propPath)

	ret := &model.NetworkState{}
	if routesDoc, ok := doc["routes"]; ok {
		if err := fromValue(routesDoc, &ret.Routes); err != nil {
			return nil, nmerror.Bug("failed to decode retained routes: %v", err)
		}
	}
	if rulesDoc, ok := doc["route-rules"]; ok {
		if err := fromValue(rulesDoc, &ret.RouteRules); err != nil {
			return nil, nmerror.Bug("failed to decode retained route-rules: %v", err)
		}
	}
	if ifacesDoc, ok := doc["interfaces"]; ok {
		var bases []model.BaseInterface
		if err := fromValue(ifacesDoc, &bases); err != nil {
			return nil, nmerror.Bug("failed to decode retained interfaces: %v", err)
		}
		ret.Interfaces = basesToEthernetInterfaces(bases)
	}
	return ret, nil
}

// stateToDocument builds the generic document tree get_value/template
// substitution walk over. Routes/RouteRules/DNS/Hostname already carry
// full yaml struct tags and round-trip directly; Interfaces is a
// tagged union (variant fields are yaml:"-") so each entry is
// represented by its BaseInterface only — the capture/template
// language only ever needs to read/match/rewrite common fields like
// name, type, state, mac-address.
func stateToDocument(state *model.NetworkState) (map[string]interface{}, error) {
	doc := map[string]interface{}{}
	if state == nil {
		return doc, nil
	}

	if len(state.Interfaces) > 0 {
		ifaces := make([]interface{}, 0, len(state.Interfaces))
		for i := range state.Interfaces {
			b := state.Interfaces[i].Base()
			if b == nil {
				continue
			}
			v, err := toValue(b)
			if err != nil {
				return nil, err
			}
			ifaces = append(ifaces, v)
		}
		doc["interfaces"] = ifaces
	}
	if state.Routes != nil {
		v, err := toValue(state.Routes)
		if err != nil {
			return nil, err
		}
		doc["routes"] = v
	}
	if state.RouteRules != nil {
		v, err := toValue(state.RouteRules)
		if err != nil {
			return nil, err
		}
		doc["route-rules"] = v
	}
	if state.DNS != nil {
		v, err := toValue(state.DNS)
		if err != nil {
			return nil, err
		}
		doc["dns-resolver"] = v
	}
	if state.Hostname != nil {
		v, err := toValue(state.Hostname)
		if err != nil {
			return nil, err
		}
		doc["hostname"] = v
	}
	return doc, nil
}
