package main

import (
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/ccbrown/hal-fu/codec"
	"github.com/ccbrown/hal-fu/hal"
	"github.com/ccbrown/hal-fu/jsontree"
)

type options struct {
	self        string
	links       []string
	curies      []string
	state       []string
	embed       []string
	format      string
	inputFormat string
	indent      int
	verbose     bool
}

func (o *options) addFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.self, "self", "", "the href of the resource's self link, replacing any the document already has")
	flags.StringArrayVarP(&o.links, "link", "l", nil, "a link to add, as rel=href")
	flags.StringArrayVar(&o.curies, "curie", nil, "a curie to add, as name=href")
	flags.StringArrayVarP(&o.state, "state", "s", nil, "a state field to add, as key=value. values that aren't valid json are treated as strings")
	flags.StringArrayVarP(&o.embed, "embed", "e", nil, "a resource to embed, as rel=path")
	flags.StringVarP(&o.format, "format", "f", "json", "the output format: "+strings.Join(codec.Names, ", "))
	flags.StringVar(&o.inputFormat, "input-format", "", "the format of the input document. by default it's inferred from the file extension")
	flags.IntVar(&o.indent, "indent", 0, "the number of spaces to indent json output by")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")
}

// Run builds a resource from the command line arguments and writes it to stdout. If a document
// path is given, the resource starts out as that document. A path of "-" reads it from stdin.
func Run(stdin io.Reader, stdout, stderr io.Writer, args ...string) error {
	var opts options
	flags := pflag.NewFlagSet("hal", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	opts.addFlags(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}

	logger := logrus.New()
	logger.Out = stderr
	if opts.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	output, err := opts.outputCodec()
	if err != nil {
		return err
	}

	var r *hal.Resource
	switch flags.NArg() {
	case 0:
		r = hal.NewResource()
	case 1:
		path := flags.Arg(0)
		input, err := opts.inputCodec(path)
		if err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{
			"path":   path,
			"format": input.Name(),
		}).Debug("reading document")
		if r, err = readResource(stdin, path, input); err != nil {
			return err
		}
	default:
		return errors.New("at most one document may be given")
	}

	if err := opts.apply(r, logger); err != nil {
		return err
	}

	buf, err := codec.Marshal(output, r)
	if err != nil {
		return err
	}
	if output.Name() == "json" {
		buf = append(buf, '\n')
	}
	logger.WithField("content_type", output.ContentType()).Debugf("writing %v bytes", len(buf))
	_, err = stdout.Write(buf)
	return err
}

func (o *options) outputCodec() (codec.Codec, error) {
	c, err := codec.ByName(o.format)
	if err != nil {
		return nil, err
	}
	if c.Name() == "json" && o.indent > 0 {
		c = codec.JSONIndent(o.indent)
	}
	return c, nil
}

func (o *options) inputCodec(path string) (codec.Codec, error) {
	if o.inputFormat != "" {
		return codec.ByName(o.inputFormat)
	}
	return codec.ByExtension(path), nil
}

// apply adds everything given via flags to r.
func (o *options) apply(r *hal.Resource, logger logrus.FieldLogger) error {
	if o.self != "" {
		r.SetLink(hal.SelfRelation, hal.NewLink(o.self))
	}

	for _, arg := range o.links {
		rel, href, err := splitPair("link", arg)
		if err != nil {
			return err
		}
		link := hal.NewLink(href)
		if strings.Contains(href, "{") {
			link = link.WithTemplated(true)
		}
		logger.WithField("rel", rel).Debugf("adding link to %v", href)
		r.AddLink(rel, link)
	}

	for _, arg := range o.curies {
		name, href, err := splitPair("curie", arg)
		if err != nil {
			return err
		}
		logger.WithField("name", name).Debugf("adding curie for %v", href)
		r.AddCurie(name, href)
	}

	for _, arg := range o.state {
		key, text, err := splitPair("state", arg)
		if err != nil {
			return err
		}
		if err := r.SetState(key, parseStateValue(text)); err != nil {
			return err
		}
	}

	for _, arg := range o.embed {
		rel, path, err := splitPair("embed", arg)
		if err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{
			"rel":  rel,
			"path": path,
		}).Debug("embedding document")
		embedded, err := readResource(nil, path, codec.ByExtension(path))
		if err != nil {
			return err
		}
		r.AddResource(rel, embedded)
	}

	return nil
}

func splitPair(flag, arg string) (string, string, error) {
	k, v, ok := strings.Cut(arg, "=")
	if !ok || k == "" {
		return "", "", errors.Errorf("invalid --%v argument %q: expected the form key=value", flag, arg)
	}
	return k, v, nil
}

// parseStateValue interprets text as json if possible, so that --state count=2 yields a number and
// --state name=Fred yields a string.
func parseStateValue(text string) any {
	if v, err := jsontree.Decode([]byte(text)); err == nil {
		return v
	}
	return text
}

func readResource(stdin io.Reader, path string, c codec.Codec) (*hal.Resource, error) {
	var data []byte
	var err error
	if path == "-" && stdin != nil {
		data, err = ioutil.ReadAll(stdin)
	} else {
		data, err = ioutil.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %v", path)
	}
	r, err := codec.Unmarshal(c, data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return r, nil
}

func main() {
	if err := Run(os.Stdin, os.Stdout, os.Stderr, os.Args[1:]...); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		logrus.Error(err)
		os.Exit(1)
	}
}
