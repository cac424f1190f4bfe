// Package analysis inspects temperature fields in the sine-mode basis of the
// discrete Dirichlet problem.
//
// With zero boundary temperatures every field on Nx samples is a sum of the
// modes sin(k*pi*i/(Nx-1)), k = 1..Nx-2. Each explicit step multiplies mode k
// by the amplification factor
//
//	g_k = 1 - 4r sin^2(k*pi / (2(Nx-1)))
//
// so the run is stable exactly when every |g_k| <= 1, which for the highest
// mode reduces to r <= 1/2.
package analysis
