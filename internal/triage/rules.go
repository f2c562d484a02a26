package triage

import (
	"fmt"
	"sort"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/opensource-legal/caracara/internal/domain"
)

// compiledRule holds a pre-compiled CEL program for one custom triage
// rule.
type compiledRule struct {
	id      string
	score   int
	insight string
	program cel.Program
}

// newRuleEnv creates the CEL environment exposing the triage factor
// variables.
func newRuleEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("has_triangulation", cel.BoolType),
		cel.Variable("has_direct_exchange", cel.BoolType),
		cel.Variable("has_borrowed_witness", cel.BoolType),
		cel.Variable("has_dual_role", cel.BoolType),
		cel.Variable("has_opposing_side_dual_role", cel.BoolType),
		cel.Variable("recurrent_attorney_count", cel.IntType),
		cel.Variable("geographic_concentration", cel.DoubleType),
		cel.Variable("has_temporal_concentration", cel.BoolType),
	)
}

// compileRules compiles the enabled rules and orders them by ID so
// that custom-rule insights append deterministically.
func compileRules(rules []domain.TriageRule) ([]*compiledRule, error) {
	if len(rules) == 0 {
		return nil, nil
	}

	env, err := newRuleEnv()
	if err != nil {
		return nil, fmt.Errorf("creating rule environment: %w", err)
	}

	compiled := make([]*compiledRule, 0, len(rules))
	for _, r := range rules {
		if !r.Enabled {
			continue
		}
		program, err := compileExpression(env, r.ID, r.Expression)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, &compiledRule{
			id:      r.ID,
			score:   r.Score,
			insight: r.Insight,
			program: program,
		})
	}

	sort.Slice(compiled, func(i, j int) bool {
		return compiled[i].id < compiled[j].id
	})

	return compiled, nil
}

// ValidateRule compiles a rule without retaining it, for up-front
// validation of operator-supplied rule files.
func ValidateRule(r domain.TriageRule) error {
	env, err := newRuleEnv()
	if err != nil {
		return fmt.Errorf("creating rule environment: %w", err)
	}
	_, err = compileExpression(env, r.ID, r.Expression)
	return err
}

func compileExpression(env *cel.Env, id, expression string) (cel.Program, error) {
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compiling rule %s: %w", id, issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("rule %s: expression must return bool, got %s", id, ast.OutputType())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("creating program for rule %s: %w", id, err)
	}
	return program, nil
}

// eval runs the rule over one factor set. Evaluation errors count as
// not triggered: a broken custom rule degrades silently rather than
// failing the batch.
func (r *compiledRule) eval(in domain.TriageInput) bool {
	out, _, err := r.program.Eval(map[string]any{
		"has_triangulation":           in.HasTriangulation,
		"has_direct_exchange":         in.HasDirectExchange,
		"has_borrowed_witness":        in.HasBorrowedWitness,
		"has_dual_role":               in.HasDualRole,
		"has_opposing_side_dual_role": in.HasOpposingSideDualRole,
		"recurrent_attorney_count":    in.RecurrentAttorneyCount,
		"geographic_concentration":    in.GeographicConcentration,
		"has_temporal_concentration":  in.HasTemporalConcentration,
	})
	if err != nil {
		return false
	}
	b, ok := out.(types.Bool)
	return ok && bool(b)
}
