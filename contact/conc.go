/*
 * conc.go, part of confwater.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package contact

import (
	"context"
	"fmt"
	"sync"

	chem "github.com/rmera/confwater"
	v3 "github.com/rmera/confwater/v3"
	"golang.org/x/sync/errgroup"
)

//job is a frame to be processed by a worker.
type job struct {
	seq    int //position of the frame among the processed ones
	frame  int //index in the trajectory
	coords *v3.Matrix
	box    *chem.Box
}

//result contains the points obtained from one frame.
type result struct {
	seq           int
	liquid, solid *Points
}

//ConcSpatialDistribution is like SpatialDistribution, but processes several frames concurrently,
//using up to the number of goroutines given by the Cpus option. The trajectory is still read
//sequentially, by a single goroutine. The results are identical to those of SpatialDistribution.
func ConcSpatialDistribution(traj chem.Traj, top Topology, cutoff float64, periodic []int, start, end, stride int, options ...*Options) (liquid, solid *Points, err error) {
	var o *Options
	if len(options) > 0 && options[0] != nil {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	r := frameRange{start: start, end: end, stride: stride}
	S, err := prepare(traj, top, cutoff, periodic, r, o)
	if err != nil {
		return nil, nil, errDecorate(err, "ConcSpatialDistribution")
	}
	cpus := o.Cpus()
	if cpus < 1 {
		cpus = 1
	}
	nframes := r.estimate()
	liquid = NewPoints(nframes * len(S.sys.liquid))
	solid = NewPoints(nframes * len(S.sys.solid))

	g, ctx := errgroup.WithContext(context.Background())
	jobs := make(chan *job, cpus)
	results := make(chan *result, cpus)
	//coordinate buffers are recycled, so at most len(free) frames are in memory at any time.
	free := make(chan *v3.Matrix, 2*cpus)
	for i := 0; i < cap(free); i++ {
		free <- v3.Zeros(S.sys.natoms)
	}
	//the reader
	g.Go(func() error {
		defer close(jobs)
		for seq := 0; ; seq++ {
			var coords *v3.Matrix
			select {
			case coords = <-free:
			case <-ctx.Done():
				return ctx.Err()
			}
			i, box, err := S.rd.read(coords)
			if err == errNoMoreFrames {
				return nil
			} else if err != nil {
				return errDecorate(err, "ConcSpatialDistribution")
			}
			select {
			case jobs <- &job{seq: seq, frame: i, coords: coords, box: box}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
	//the workers
	var wg sync.WaitGroup
	for k := 0; k < cpus; k++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			w := newWorkspace(S.sys)
			for j := range jobs {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				res := &result{seq: j.seq, liquid: NewPoints(len(S.sys.liquid)), solid: NewPoints(len(S.sys.solid))}
				err := S.geo.process(j.coords, j.box, S.sys, S.anc, w, res.liquid, res.solid)
				free <- j.coords
				if err != nil {
					return errDecorate(err, fmt.Sprintf("ConcSpatialDistribution: frame %d", j.frame))
				}
				select {
				case results <- res:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	//the results are put back in frame order.
	pending := make(map[int]*result)
	next := 0
	for res := range results {
		pending[res.seq] = res
		for p, ok := pending[next]; ok; p, ok = pending[next] {
			liquid.AppendPoints(p.liquid)
			solid.AppendPoints(p.solid)
			delete(pending, next)
			next++
		}
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return liquid, solid, nil
}
