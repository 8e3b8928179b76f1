package templates

import "strconv"

func fmtNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// dashboardScript wires the controls to /ws/controls, falling back to plain
// fetches of /fragments/charts and /api/sites when the socket is unavailable.
const dashboardScript = `<script>
(function(){
  var input = document.getElementById('site-input');
  var dropdown = document.getElementById('site-dropdown');
  var low = document.getElementById('payload-low');
  var high = document.getElementById('payload-high');
  var ws = null;

  function controls(){
    var lo = parseFloat(low.value), hi = parseFloat(high.value);
    if (lo > hi) { var t = lo; lo = hi; hi = t; }
    return {site: dropdown.value || 'ALL', payload: {low: lo, high: hi}};
  }
  function query(c){
    return 'site=' + encodeURIComponent(c.site) + '&min=' + c.payload.low + '&max=' + c.payload.high;
  }
  function setOptions(opts){
    var current = dropdown.value;
    dropdown.innerHTML = '';
    opts.forEach(function(o){
      var el = document.createElement('option');
      el.value = o.value; el.textContent = o.label;
      if (o.value === current) { el.selected = true; }
      dropdown.appendChild(el);
    });
    if (dropdown.value !== current) { refresh(); }
  }
  function setCharts(msg){
    document.getElementById('success-pie-chart').innerHTML = msg.pie_svg;
    document.getElementById('success-payload-scatter-chart').innerHTML = msg.scatter_svg;
  }
  function refresh(){
    var c = controls();
    if (ws && ws.readyState === 1) { ws.send(JSON.stringify({type: 'view', controls: c})); return; }
    fetch('/fragments/charts?' + query(c)).then(function(r){ return r.text(); }).then(function(html){
      document.getElementById('charts').outerHTML = html;
    });
  }
  function search(){
    var q = input.value || '';
    if (ws && ws.readyState === 1) { ws.send(JSON.stringify({type: 'search', search: q})); return; }
    fetch('/api/sites?q=' + encodeURIComponent(q)).then(function(r){ return r.json(); }).then(setOptions);
  }
  try {
    ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws/controls');
    ws.onmessage = function(ev){
      var msg = JSON.parse(ev.data);
      if (msg.event === 'view') { setCharts(msg); }
      else if (msg.event === 'options') { setOptions(msg.options); }
      else if (msg.event === 'error') { console.warn(msg.error); }
    };
    ws.onclose = function(){ ws = null; };
  } catch (e) { ws = null; }

  input.addEventListener('input', search);
  dropdown.addEventListener('change', refresh);
  low.addEventListener('change', refresh);
  high.addEventListener('change', refresh);
})();
</script>`
