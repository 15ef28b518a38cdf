package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kurobaex/native-bridge/classpath"
	"github.com/kurobaex/native-bridge/hostenv/heap"
	"github.com/kurobaex/native-bridge/schema"
)

var cmdSchema = &cli.Command{
	Name:  "schema",
	Usage: "list the host classes, fields and constructors the bridge binds to",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "print the class list as JSON",
		},
		&cli.BoolFlag{
			Name:  "check",
			Usage: "install the classes on a scratch heap and verify them",
		},
	},
	Action: runSchema,
}

type classInfo struct {
	Type   string      `json:"type"`
	Class  string      `json:"class"`
	Fields []fieldInfo `json:"fields,omitempty"`
	Ctors  []string    `json:"ctors,omitempty"`
}

type fieldInfo struct {
	Name     string `json:"name"`
	Sig      string `json:"sig"`
	Optional bool   `json:"optional,omitempty"`
}

func describeSchema(reg *schema.Registry) []classInfo {
	out := make([]classInfo, 0, len(schema.Types))
	for _, t := range schema.Types {
		ci := classInfo{Type: t.String(), Class: reg.ClassName(t)}
		for _, f := range schema.FieldsOf(t) {
			ci.Fields = append(ci.Fields, fieldInfo{Name: f.Name, Sig: reg.FieldSig(f), Optional: f.Optional})
		}
		for _, c := range schema.CtorsOf(t) {
			ci.Ctors = append(ci.Ctors, reg.CtorSig(c))
		}
		out = append(out, ci)
	}
	return out
}

func runSchema(cctx *cli.Context) error {
	cfg, err := loadConfig(cctx)
	if err != nil {
		return err
	}
	reg, err := schema.New(cfg.Namespaces)
	if err != nil {
		return err
	}

	if cctx.Bool("check") {
		h := heap.New()
		if err := classpath.Install(h, reg); err != nil {
			return err
		}
		env := h.Attach()
		defer env.Detach()
		if err := reg.Verify(env); err != nil {
			return err
		}
	}

	classes := describeSchema(reg)
	if cctx.Bool("json") {
		enc := json.NewEncoder(cctx.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(classes)
	}

	out := newRenderer(cctx.App.Writer)
	for _, c := range classes {
		fmt.Fprintf(out.w, "%s %s\n", out.paint(titleStyle, c.Type), out.paint(descStyle, c.Class))
		for _, f := range c.Fields {
			opt := ""
			if f.Optional {
				opt = out.paint(helpStyle, " (optional)")
			}
			fmt.Fprintf(out.w, "  %s %s%s\n", f.Name, f.Sig, opt)
		}
		for _, sig := range c.Ctors {
			fmt.Fprintf(out.w, "  <init>%s\n", sig)
		}
	}
	if cctx.Bool("check") {
		fmt.Fprintln(out.w, out.paint(resultStyle, "all classes verified"))
	}
	return nil
}
