// Package gen renders expanded operator implementations as Rust source.
//
// Generation uses text/template, one impl block per implementation:
//
//	impl<generics> ::core::ops::Add<&Rhs> for Lhs {
//	    type Output = Out;
//
//	    #[attributes]
//	    fn add(self, rhs: &Rhs) -> Self::Output {
//	        let lhs = self;
//	        (|a: &Lhs, b: &Rhs| -> Out { body })(&lhs, rhs)
//	    }
//	}
//
// The user's operator is spliced in as a closure literal and called with
// adapted arguments, so the body always sees the ownership it was written
// against. Assignment operators take `&mut self` and return nothing.
//
// A Generator processes whole files: every directive is analyzed, and a file
// with any error produces no output.
package gen
