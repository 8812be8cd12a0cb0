package densecode

import (
	"bytes"
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const workers = 4

// Result describes one file encoded by EncodeTree.
type Result struct {
	// Source and Output are the input file and the image written for it.
	Source, Output string
	// SHA1 is the hex digest of the image file.
	SHA1 string
	Info *Info
}

func hidden(info os.FileInfo) bool {
	return info.Name()[0] == '.'
}

func (c *Codec) findFiles(ctx context.Context, base, skip string) (<-chan string, <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if hidden(info) && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Don't encode our own output
			if info.Mode().IsDir() && file == skip {
				return filepath.SkipDir
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc
}

func (c *Codec) encodeFile(base, dst, file string, f Format) (*Result, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}

	m, info, err := c.Encode(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	buf := new(bytes.Buffer)
	if err := WriteImage(buf, m, f); err != nil {
		return nil, err
	}

	rel, err := filepath.Rel(base, file)
	if err != nil {
		return nil, err
	}
	output := filepath.Join(dst, rel+f.Ext())

	if err := os.MkdirAll(filepath.Dir(output), 0777); err != nil {
		return nil, err
	}
	if err := ioutil.WriteFile(output, buf.Bytes(), 0666); err != nil {
		return nil, err
	}

	c.logger.Printf("Encoded \"%s\" as \"%s\"\n", file, output)

	return &Result{
		Source: file,
		Output: output,
		SHA1:   fmt.Sprintf("%X", sha1.Sum(buf.Bytes())),
		Info:   info,
	}, nil
}

func (c *Codec) fileWorker(ctx context.Context, wg *sync.WaitGroup, base, dst string, f Format, in <-chan string, out chan<- *Result) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer wg.Done()
		defer close(errc)
		for file := range in {
			r, err := c.encodeFile(base, dst, file, f)
			if err != nil {
				errc <- err
				return
			}

			select {
			case out <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	return errc
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// EncodeTree encodes every regular file under src, skipping hidden files
// and directories, and writes each image to the same relative path under
// dst with the extension for f appended. The results are sorted by source
// path.
func (c *Codec) EncodeTree(src, dst string, f Format) ([]Result, error) {
	base, err := filepath.Abs(src)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(base)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", src)
	}

	skip, err := filepath.Abs(dst)
	if err != nil {
		return nil, err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	files, errc := c.findFiles(ctx, base, skip)
	errcList := []<-chan error{errc}

	results := make(chan *Result)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		errcList = append(errcList, c.fileWorker(ctx, &wg, base, dst, f, files, results))
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var out []Result
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range results {
			out = append(out, *r)
		}
	}()

	if err := waitForPipeline(errcList...); err != nil {
		return nil, err
	}
	<-done

	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })

	return out, nil
}
