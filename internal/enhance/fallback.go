package enhance

import (
	"fmt"
	"go/ast"
	"go/constant"
	"go/parser"
	"go/token"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	quotedWord     = regexp.MustCompile(`"([^"]+)"`)
	whatIsRest     = regexp.MustCompile(`(?i)what is (.+)`)
	questionPrefix = regexp.MustCompile(`(?i)^(what is|how to|how do|define|explain)`)
	nonMath        = regexp.MustCompile(`[^0-9+\-*/.() ]`)
)

// SmartFallback answers input locally with a few fixed strategies: letter
// counting for a quoted word, basic arithmetic, definitions, how-to plans
// and a generic response.
func SmartFallback(input string) string {
	lower := strings.ToLower(input)

	if strings.Contains(lower, "alphabet") || strings.Contains(lower, "letter") {
		if m := quotedWord.FindStringSubmatch(input); m != nil {
			return fmt.Sprintf("The word %q has %d letters.", m[1], utf8.RuneCountInString(m[1]))
		}
	}

	if strings.Contains(lower, "what is") && strings.ContainsAny(lower, "+-*/") {
		if m := whatIsRest.FindStringSubmatch(input); m != nil {
			expr := strings.TrimRight(strings.TrimSpace(m[1]), "?!. ")
			result, err := evalArithmetic(expr)
			if err != nil {
				return "I can help with basic math. Try: 'What is 2 + 2?'"
			}
			return fmt.Sprintf("%s = %s", expr, result)
		}
	}

	if strings.Contains(lower, "what is") || strings.Contains(lower, "define") {
		topic := extractTopic(input)
		return fmt.Sprintf(`%[1]s is a concept that requires detailed explanation. Here's what I can tell you:

%[1]s involves multiple aspects and applications. To get comprehensive information, I recommend:

1. **Research**: Look up authoritative sources
2. **Context**: Consider the specific domain or field
3. **Examples**: Find real-world applications
4. **Expert opinions**: Consult specialists in the area

Would you like me to help you create a research plan for learning more about %[1]s?`, topic)
	}

	if strings.Contains(lower, "how to") || strings.Contains(lower, "how do") {
		task := extractTopic(input)
		return fmt.Sprintf(`To accomplish %[1]q, here's a general approach:

**Step 1: Planning**
- Define your specific goals
- Identify required resources
- Set realistic timeline

**Step 2: Research**
- Look up best practices
- Find relevant tools/methods
- Learn from others' experiences

**Step 3: Implementation**
- Start with basics
- Practice regularly
- Track progress

**Step 4: Improvement**
- Get feedback
- Refine your approach
- Continue learning

Would you like me to create a detailed action plan for %[1]q?`, task)
	}

	return fmt.Sprintf(`I understand you're asking about: %q

This is an interesting question that could have multiple angles. Here's how I can help:

**Context Matters**: The answer might vary depending on:
- Your specific situation
- The domain or field involved
- Your level of expertise

**Next Steps**:
1. I can create a detailed research guide
2. Provide step-by-step instructions
3. Generate relevant resources and tools

Would you like me to dive deeper into any specific aspect of your question?`, input)
}

// extractTopic strips a leading question phrase and punctuation.
func extractTopic(input string) string {
	cleaned := questionPrefix.ReplaceAllString(strings.TrimSpace(input), "")
	cleaned = strings.NewReplacer("?", "", "!", "", ".", "").Replace(cleaned)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "this topic"
	}
	return cleaned
}

// evalArithmetic evaluates + - * / and parentheses over decimal numbers.
// Anything else in expr is dropped before parsing.
func evalArithmetic(expr string) (string, error) {
	sanitized := strings.TrimSpace(nonMath.ReplaceAllString(expr, ""))
	if sanitized == "" {
		return "", fmt.Errorf("empty expression")
	}
	node, err := parser.ParseExpr(sanitized)
	if err != nil {
		return "", err
	}
	v, err := evalNode(node)
	if err != nil {
		return "", err
	}
	f, _ := constant.Float64Val(constant.ToFloat(v))
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

func evalNode(n ast.Expr) (constant.Value, error) {
	switch n := n.(type) {
	case *ast.BasicLit:
		if n.Kind != token.INT && n.Kind != token.FLOAT {
			return nil, fmt.Errorf("unsupported literal %s", n.Value)
		}
		return constant.MakeFromLiteral(n.Value, n.Kind, 0), nil
	case *ast.ParenExpr:
		return evalNode(n.X)
	case *ast.UnaryExpr:
		x, err := evalNode(n.X)
		if err != nil {
			return nil, err
		}
		if n.Op != token.SUB && n.Op != token.ADD {
			return nil, fmt.Errorf("unsupported operator %s", n.Op)
		}
		return constant.UnaryOp(n.Op, x, 0), nil
	case *ast.BinaryExpr:
		x, err := evalNode(n.X)
		if err != nil {
			return nil, err
		}
		y, err := evalNode(n.Y)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case token.ADD, token.SUB, token.MUL:
		case token.QUO:
			if constant.Sign(y) == 0 {
				return nil, fmt.Errorf("division by zero")
			}
		default:
			return nil, fmt.Errorf("unsupported operator %s", n.Op)
		}
		return constant.BinaryOp(x, n.Op, y), nil
	}
	return nil, fmt.Errorf("unsupported expression")
}
