package service

import (
	"fmt"
	"time"
)

// Image-resolution time budgets. The global deadline bounds the whole sweep,
// so worst-case document latency under a total image-host outage is the global
// deadline, not placeholders x per-candidate deadline.
const (
	perCandidateTimeout = 8 * time.Second
	globalSweepTimeout  = 30 * time.Second
)

// imageResolverScript drives candidate fallback inside the page: for every
// placeholder it walks the candidate list in order, treating each attempt as a
// timed operation with a tagged result (success / error / timeout), re-checking
// the global deadline before each attempt. It resolves to the full outcome
// list and never rejects: image failures degrade to the no-photo box.
//
// The two %d verbs are the per-candidate and global budgets in milliseconds.
const imageResolverScript = `
(async () => {
	const PER_CANDIDATE_MS = %d;
	const GLOBAL_MS = %d;
	const start = Date.now();
	const outcomes = [];

	function showFallback(img) {
		img.style.display = 'none';
		const box = img.parentElement && img.parentElement.querySelector('.no-photo');
		if (box) box.style.display = 'flex';
	}

	function attemptCandidate(img, url) {
		return new Promise((resolve) => {
			const began = Date.now();
			const done = (status) => {
				clearTimeout(timer);
				img.onload = null;
				img.onerror = null;
				resolve({ url: url, status: status, elapsed_ms: Date.now() - began });
			};
			const timer = setTimeout(() => done('timeout'), PER_CANDIDATE_MS);
			img.onload = () => {
				done(img.naturalWidth > 0 && img.naturalHeight > 0 ? 'success' : 'error');
			};
			img.onerror = () => done('error');
			if (img.src === url && img.complete && img.naturalWidth > 0) {
				done('success');
				return;
			}
			// Re-assigning an identical src does not re-fire load events
			// in every engine.
			if (img.src === url) {
				img.removeAttribute('src');
			}
			img.src = url;
		});
	}

	const placeholders = Array.from(document.querySelectorAll('img[data-candidates]'));
	let globalExpired = false;

	for (const img of placeholders) {
		const outcome = {
			product_id: img.dataset.productId || '',
			product_code: img.dataset.productCode || '',
			success: false,
			attempts: [],
			reason: ''
		};

		if (globalExpired) {
			showFallback(img);
			continue;
		}

		let candidates = [];
		try { candidates = JSON.parse(img.dataset.candidates || '[]'); } catch (e) {}

		if (candidates.length === 0) {
			outcome.reason = 'no-sources';
			showFallback(img);
			outcomes.push(outcome);
			continue;
		}

		for (const url of candidates) {
			if (Date.now() - start > GLOBAL_MS) {
				outcome.reason = 'global-timeout';
				globalExpired = true;
				break;
			}
			const attempt = await attemptCandidate(img, url);
			outcome.attempts.push(attempt);
			if (attempt.status === 'success') {
				outcome.success = true;
				break;
			}
		}

		if (!outcome.success) {
			if (outcome.reason === '') outcome.reason = 'all-candidates-failed';
			showFallback(img);
		}
		outcomes.push(outcome);

		if (globalExpired) {
			outcomes.push({ product_id: '', product_code: '', success: false, attempts: [], reason: 'global-timeout' });
		}
	}

	return outcomes;
})()
`

// buildImageResolverScript renders the resolver script with the configured
// time budgets.
func buildImageResolverScript() string {
	return renderImageResolverScript(perCandidateTimeout, globalSweepTimeout)
}

func renderImageResolverScript(perCandidate, global time.Duration) string {
	return fmt.Sprintf(imageResolverScript,
		perCandidate.Milliseconds(),
		global.Milliseconds(),
	)
}
