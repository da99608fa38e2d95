// ABOUTME: Sweep phase releasing unmarked objects and compacting registries
// ABOUTME: Survivors have their mark cleared for the next cycle

package heap

func (h *Heap) sweepValues() {
	for i, v := range h.values.items {
		if !v.marked {
			h.releaseValue(h.values.take(i))
		} else {
			v.marked = false
		}
	}
	h.values.compact()
}

func (h *Heap) sweepLambdas() {
	for i, f := range h.lambdas.items {
		if !f.marked {
			h.releaseLambda(h.lambdas.take(i))
		} else {
			f.marked = false
		}
	}
	h.lambdas.compact()
}

func (h *Heap) sweepEnvironments() {
	for i, env := range h.envs.items {
		if !env.marked {
			h.releaseEnvironment(h.envs.take(i))
		} else {
			env.marked = false
		}
	}
	h.envs.compact()
}

// sweep runs the three passes in kind order: values, lambdas, environments
func (h *Heap) sweep() {
	h.sweepValues()
	h.sweepLambdas()
	h.sweepEnvironments()
}
