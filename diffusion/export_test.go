package diffusion

// Test bridge: expose the private propagate+renormalize kernel to the
// black-box diffusion_test package without widening the production API.
var StepOnce = stepOnce
