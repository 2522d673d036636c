package domain

import (
	"fmt"
	"strings"

	m "clar.dev/pkg/clargen/internal/model"
)

const nullCallback = "    { NULL, NULL, 0, NULL }"

// RenderSuite renders the registry into the artifact consumed by the test
// runtime: extern declarations, per-module callback tables, the suite array
// and the two size constants. Modules are emitted in name order.
func RenderSuite(appName string, registry *m.Registry) []byte {
	var b strings.Builder

	modules := registry.Sorted()

	for _, mod := range modules {
		b.WriteString(renderDeclarations(mod))
	}

	for _, mod := range modules {
		b.WriteString(renderCallbacks(mod))
	}

	b.WriteString(renderSuites(appName, registry.Suites()))
	b.WriteString(renderCounts(appName, registry))

	return []byte(b.String())
}

func renderCallback(fn *m.TestFunction) string {
	if fn == nil {
		return nullCallback
	}

	description := "NULL"
	if fn.Description != nil {
		description = `"` + *fn.Description + `"`
	}

	return fmt.Sprintf(`    { "%s", %s, %d, &%s }`, fn.ShortName, description, fn.Runs, fn.Symbol)
}

func renderDeclarations(mod *m.Module) string {
	lines := make([]string, 0, len(mod.Callbacks))
	for _, cb := range mod.Callbacks {
		lines = append(lines, "extern "+cb.Declaration+";")
	}

	var b strings.Builder

	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")

	for _, fn := range mod.Initializers {
		b.WriteString("extern " + fn.Declaration + ";\n")
	}

	if mod.Reset != nil {
		b.WriteString("extern " + mod.Reset.Declaration + ";\n")
	}

	if mod.Cleanup != nil {
		b.WriteString("extern " + mod.Cleanup.Declaration + ";\n")
	}

	return b.String()
}

func callbackTableName(mod *m.Module) string {
	return fmt.Sprintf("_%s_cb_%s", mod.AppName, mod.Name)
}

// renderCallbacks emits the module's test table, closed by a null row the
// runtime uses as end marker.
func renderCallbacks(mod *m.Module) string {
	rows := make([]string, 0, len(mod.Callbacks)+1)
	for i := range mod.Callbacks {
		rows = append(rows, renderCallback(&mod.Callbacks[i]))
	}

	rows = append(rows, nullCallback)

	return fmt.Sprintf("static const struct %s_func %s[] = {\n%s\n};\n",
		mod.AppName, callbackTableName(mod), strings.Join(rows, ",\n"))
}

func renderSuite(suite m.Suite) string {
	mod := suite.Module

	enabled := 0
	if mod.Enabled {
		enabled = 1
	}

	return fmt.Sprintf("\n    {\n        \"%s\",\n%s,\n%s,\n%s,\n        %s, %d, %d\n    }",
		suite.DisplayName(),
		renderCallback(suite.Initializer),
		renderCallback(mod.Reset),
		renderCallback(mod.Cleanup),
		callbackTableName(mod), len(mod.Callbacks), enabled)
}

func renderSuites(appName string, suites []m.Suite) string {
	rows := make([]string, 0, len(suites))
	for _, suite := range suites {
		rows = append(rows, renderSuite(suite))
	}

	return fmt.Sprintf("static struct %s_suite _%s_suites[] = {%s\n};\n", appName, appName, strings.Join(rows, ","))
}

func renderCounts(appName string, registry *m.Registry) string {
	return fmt.Sprintf("static const size_t _%s_suite_count = %d;\nstatic const size_t _%s_callback_count = %d;\n",
		appName, registry.SuiteCount(), appName, registry.CallbackCount())
}
